package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"decode", fmt.Errorf("x: %w", imaging.ErrDecode), KindDecode},
		{"geometry", leads.ErrGeometryMismatch, KindGeometryMismatch},
		{"artifact", fmt.Errorf("%w: a.yaml", model.ErrArtifactMissing), KindModelArtifactMissing},
		{"load", model.ErrLoad, KindModelLoad},
		{"shape", model.ErrShapeMismatch, KindModelShapeMismatch},
		{"empty", waveform.ErrEmptyFeatureVector, KindEmptyFeatureVector},
		{"missing lead", waveform.ErrMissingLead, KindMissingLead},
		{"canceled", context.Canceled, KindCanceled},
		{"unknown", errors.New("boom"), KindInternal},
		{"run error", &RunError{Kind: KindDecode, Err: errors.New("boom")}, KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunError_Unwrap(t *testing.T) {
	err := &RunError{RunID: "r1", Stage: StageStart, Kind: KindModelLoad, Err: model.ErrLoad}
	if !errors.Is(err, model.ErrLoad) {
		t.Error("RunError should unwrap to its cause")
	}
	if got := err.Error(); got == "" {
		t.Error("empty error message")
	}
}
