// Package pipeline runs one ECG printout through every stage from raster
// image to diagnostic label.
//
// # Stages
//
// A run walks a fixed sequence of stages:
//
//	Start → Ingested → Segmented → LeadsProcessed → Assembled → Reduced → Classified → Completed
//
// Any fatal error moves the run to Failed and stops it. The error is a
// *RunError carrying the run identifier, the stage that failed and an
// ErrorKind. A lead without a usable contour is not fatal: it is recorded in
// the run's LeadReport list and handled by the missing-lead policy of the
// feature assembler.
//
// # Concurrency
//
// The twelve lead computations are independent and run on a bounded pool of
// goroutines. Results are stored by lead index, so the feature vector does
// not depend on scheduling. A Pipeline holds no per-run state and can serve
// concurrent runs; models come from a shared model.Store.
package pipeline
