// Package model wraps the pretrained projection and classifier artifacts and
// maps raw classifier codes to diagnostic labels.
//
// The pipeline sees the models only through two small capabilities:
//
//   - Projection: Transform a feature vector into the reduced space
//   - Classifier: Predict an integer class code from a reduced vector
//
// The shipped implementations are a principal component projection and a
// linear discriminant, both read from YAML or JSON artifact files. Any other
// model that satisfies the interfaces can be handed to NewStaticStore.
//
// # Label Table
//
// Which code means which condition is decided by how the classifier was
// trained, so the mapping lives in a LabelTable that configuration can
// replace. Codes absent from the table resolve to the table's fallback.
//
// # Thread Safety
//
// Loaded models are immutable. Store loads each artifact at most once and
// can be shared by concurrent pipeline runs.
package model
