// Package preview writes human-review artifacts of a pipeline run.
//
// Exports are optional and never feed back into classification. Every run
// gets its own directory named by its run identifier under the exporter's
// base directory, so concurrent runs never share a file name. A failed
// export removes its directory.
//
// # Files
//
//   - leads_1-12.png: the twelve lead crops in a 4x3 montage
//   - long_lead_13.png: the rhythm strip
//   - preprocessed_leads_1-12.png: preview binarization masks at 300x450
//   - preprocessed_lead_13.png: the rhythm strip mask at crop size
//   - contour_leads_1-12.png: resampled dominant contours
//   - scaled_leads.csv: one row of 255 scaled samples per lead
//   - leads.csv: per-lead processing summary
package preview
