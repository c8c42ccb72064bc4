// Package dataprocessing implements the grade analysis pipeline: loading
// raw tabular data (or generating a synthetic sample), cleaning it,
// deriving per-student summary fields, and computing dataset-wide
// aggregate statistics.
//
// Stages are pure with respect to their input: each receives a Dataset,
// clones it, and returns the new value. Structural failures (no recognized
// subject columns) abort the stage and everything downstream; storage
// failures while persisting intermediate files are warnings only.
package dataprocessing
