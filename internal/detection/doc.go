// Package detection traces waveform boundaries in binary lead masks.
//
// A lead mask marks dark trace pixels as true. FindContours walks the mask
// with marching squares and returns every iso-level boundary as an ordered
// Path of sub-pixel (row, col) points. Extract picks the dominant boundary,
// the one with the most points, which the waveform stage treats as the
// printed trace of that lead.
//
// # Traversal Order
//
// Segments are generated cell by cell, top row first and left to right
// within a row, and joined as soon as two endpoints coincide exactly. The
// order in which paths are created is therefore fixed by the mask content,
// and Dominant relies on it to break ties between equally long paths.
//
// # Open And Closed Paths
//
// A boundary that returns to its start is closed and repeats its first point
// at the end. Boundaries that reach the mask border stay open. A trace that
// spans the full lead width usually produces open paths.
//
// # Coordinate System
//
// Points use (row, col) in mask pixel units:
//   - Origin (0, 0) at the top-left pixel centre
//   - Row increases downward
//   - Col increases rightward
package detection
