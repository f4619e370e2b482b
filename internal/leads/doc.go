// Package leads cuts the canonical ECG image into its lead regions and turns
// each region into a binary trace mask.
//
// The printout layout is fixed: four columns by three rows of short leads
// followed by one long rhythm strip. Geometry holds the pixel bounds of every
// region on the canonical image. Regions 1-12 feed the classifier; region 13
// (the rhythm strip) is only rendered for human review.
package leads
