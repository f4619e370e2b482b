// Package imaging turns an ECG printout raster into the canonical intensity
// matrix the rest of the pipeline works on, and provides the numeric image
// primitives the lead stages need.
//
// All processing happens on Matrix, a dense row-major float64 grid. Values are
// intensities in [0,1] where 0 is black ink and 1 is white paper. Indexing is
// (row, col), matching the printout geometry tables: row grows downward and
// col grows rightward, origin at the top-left pixel.
//
// # Canonical Image
//
// Canonicalize converts any decoded image to a single channel using the
// luminance weights 0.2125 R + 0.7154 G + 0.0721 B, then resamples it to
// exactly CanonicalRows x CanonicalCols. Every downstream crop coordinate
// assumes this size.
//
// # Numeric Compatibility
//
// The pretrained models downstream were fitted on features produced by a
// specific chain of image operations. The primitives here reproduce that
// chain:
//   - Resize: linear interpolation with pixel-centre alignment and mirror
//     boundaries, preceded by a Gaussian anti-aliasing pass when shrinking
//   - ResizeMask: nearest-neighbour resampling of boolean masks
//   - Gaussian: separable Gaussian filter truncated at 4 sigma
//   - OtsuThreshold: 256-bin histogram Otsu threshold
//
// # Thread Safety
//
// CanonicalCache is safe for concurrent use. Matrix values are plain data;
// functions in this package never mutate their inputs, so a Matrix can be
// read by several goroutines at once.
package imaging
