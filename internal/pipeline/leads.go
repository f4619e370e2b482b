package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/ironsheep/ecg-tools-mcp/internal/detection"
	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// LeadStatus summarises the outcome of one lead.
type LeadStatus string

const (
	LeadOK         LeadStatus = "ok"
	LeadNoContour  LeadStatus = "no_contour"
	LeadDegenerate LeadStatus = "degenerate"
)

// LeadReport describes how one model lead was processed.
type LeadReport struct {
	Index     int        `json:"index"`
	Name      string     `json:"name"`
	Status    LeadStatus `json:"status"`
	Kind      ErrorKind  `json:"kind,omitempty"`
	Threshold float64    `json:"threshold"`
	TracePx   int        `json:"trace_pixels"`
	Contours  int        `json:"contours"`
	Points    int        `json:"points"`
}

// LeadOutput is the full result of one lead: its report plus the
// intermediate values kept for review exports.
type LeadOutput struct {
	Report   LeadReport
	Mask     *imaging.Mask
	Contour  detection.Path
	Waveform *waveform.Waveform
}

// Vector returns the lead's waveform values, or nil when the lead has none.
func (o LeadOutput) Vector() waveform.Vector {
	if o.Waveform == nil {
		return nil
	}
	return o.Waveform.Values
}

// ProcessLead binarizes a model lead region, extracts its dominant contour
// and normalizes it. A missing contour is reported in the output, not as an
// error.
func ProcessLead(region leads.Region) (LeadOutput, error) {
	out := LeadOutput{Report: LeadReport{Index: region.Index, Name: region.Name}}

	bin := leads.Threshold(region.Pixels, leads.FeatureSigma)
	mask := bin.Resized()
	out.Mask = mask
	out.Report.Threshold = bin.Threshold
	out.Report.TracePx = mask.Count()

	ex, err := detection.Extract(mask)
	if errors.Is(err, detection.ErrNoContour) {
		out.Report.Status = LeadNoContour
		out.Report.Kind = KindNoContour
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Contour = ex.Dominant
	out.Report.Contours = ex.Count
	out.Report.Points = len(ex.Dominant)

	w, err := waveform.Normalize(ex.Dominant)
	if err != nil {
		return out, err
	}
	out.Waveform = &w
	out.Report.Status = LeadOK
	if w.Degenerate {
		out.Report.Status = LeadDegenerate
		out.Report.Kind = KindDegenerateWaveform
	}
	return out, nil
}

// processLeads runs ProcessLead over regions with at most workers goroutines.
// Outputs keep the order of regions.
func processLeads(ctx context.Context, regions []leads.Region, workers int) ([]LeadOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(regions) {
		workers = len(regions)
	}

	outputs := make([]LeadOutput, len(regions))
	errs := make([]error, len(regions))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outputs[i], errs[i] = ProcessLead(regions[i])
			}
		}()
	}

	var ctxErr error
feed:
	for i := range regions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outputs, nil
}
