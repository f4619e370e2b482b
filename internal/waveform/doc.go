// Package waveform turns dominant lead contours into fixed-length feature
// vectors and assembles the per-lead vectors into the model input.
//
// Normalize resamples a contour to Length points, scales each coordinate
// column to [0,1] and keeps the row column as the lead's waveform. The
// Assembler concatenates the twelve lead vectors in lead order and applies
// the missing-lead policy.
package waveform
