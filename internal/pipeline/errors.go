package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironsheep/ecg-tools-mcp/internal/detection"
	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// ErrorKind classifies pipeline failures and per-lead annotations.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindDecode               ErrorKind = "DecodeError"
	KindGeometryMismatch     ErrorKind = "GeometryMismatch"
	KindNoContour            ErrorKind = "NoContourFound"
	KindDegenerateWaveform   ErrorKind = "DegenerateWaveform"
	KindModelArtifactMissing ErrorKind = "ModelArtifactMissing"
	KindModelLoad            ErrorKind = "ModelLoadError"
	KindModelShapeMismatch   ErrorKind = "ModelShapeMismatch"
	KindEmptyFeatureVector   ErrorKind = "EmptyFeatureVector"
	KindMissingLead          ErrorKind = "MissingLead"
	KindCanceled             ErrorKind = "Canceled"
	KindInternal             ErrorKind = "Internal"
)

// RunError is the terminal error of a failed run.
type RunError struct {
	RunID string
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed at %s (%s): %v", e.RunID, e.Stage, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err. A *RunError anywhere in the chain
// provides its kind directly; otherwise the kind is derived from the known
// sentinel errors. A nil error yields KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return classify(err)
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, imaging.ErrDecode):
		return KindDecode
	case errors.Is(err, leads.ErrGeometryMismatch):
		return KindGeometryMismatch
	case errors.Is(err, detection.ErrNoContour):
		return KindNoContour
	case errors.Is(err, model.ErrArtifactMissing):
		return KindModelArtifactMissing
	case errors.Is(err, model.ErrLoad):
		return KindModelLoad
	case errors.Is(err, model.ErrShapeMismatch):
		return KindModelShapeMismatch
	case errors.Is(err, waveform.ErrEmptyFeatureVector):
		return KindEmptyFeatureVector
	case errors.Is(err, waveform.ErrMissingLead):
		return KindMissingLead
	case errors.Is(err, waveform.ErrVectorLength):
		return KindModelShapeMismatch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindInternal
}
