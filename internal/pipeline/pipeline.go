package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/logger"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	// Workers bounds how many leads are processed at once. Default 1.
	Workers int

	// Policy handles leads without a waveform. Default zero-pad.
	Policy waveform.Policy

	// Labels maps classifier codes to labels. Default DefaultLabelTable.
	Labels *model.LabelTable

	// Logger receives run progress. Default discards.
	Logger *logger.Logger
}

// Pipeline turns ECG printouts into labels.
type Pipeline struct {
	store     *model.Store
	labels    model.LabelTable
	assembler waveform.Assembler
	workers   int
	log       *logger.Logger
	newID     func() string
}

// New creates a pipeline that takes its models from store.
func New(store *model.Store, opts Options) *Pipeline {
	p := &Pipeline{
		store:     store,
		labels:    model.DefaultLabelTable(),
		assembler: waveform.Assembler{Policy: opts.Policy},
		workers:   opts.Workers,
		log:       opts.Logger,
		newID:     func() string { return uuid.New().String() },
	}
	if opts.Labels != nil {
		p.labels = *opts.Labels
	}
	if p.assembler.Policy == "" {
		p.assembler.Policy = waveform.PolicyZeroPad
	}
	if p.workers < 1 {
		p.workers = 1
	}
	if p.log == nil {
		p.log = logger.Discard()
	}
	return p
}

// Labels returns the label table in use.
func (p *Pipeline) Labels() model.LabelTable {
	return p.labels
}

// Store returns the model store.
func (p *Pipeline) Store() *model.Store {
	return p.store
}

// Result is the outcome of a run. On failure it holds whatever was produced
// before the failing stage, with Stage set to StageFailed.
type Result struct {
	RunID  string    `json:"run_id"`
	Stage  Stage     `json:"stage"`
	Stages []Stage   `json:"stages"`
	Kind   ErrorKind `json:"kind,omitempty"`

	Label   model.Label `json:"label,omitempty"`
	Code    *int        `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`

	Leads    []LeadReport `json:"leads,omitempty"`
	Missing  []int        `json:"missing_leads,omitempty"`
	Features []float64    `json:"features,omitempty"`
	Reduced  []float64    `json:"reduced,omitempty"`

	// Canonical and Outputs back review exports; they are not serialized.
	Canonical *imaging.Matrix `json:"-"`
	Regions   []leads.Region  `json:"-"`
	Outputs   []LeadOutput    `json:"-"`
}

// ClassCode returns the raw classifier code, or -1 when the run never
// reached Classified.
func (r *Result) ClassCode() int {
	if r.Code == nil {
		return -1
	}
	return *r.Code
}

// Classify runs the full pipeline on the image provided by src.
//
// Both models are resolved before src is read, so a missing or broken
// artifact fails the run without touching the image or any cache.
//
// Returns the Result and, on failure, a *RunError. The Result is returned
// in both cases.
func (p *Pipeline) Classify(ctx context.Context, src Source) (*Result, error) {
	r := newRun(p.newID(), p.log)
	p.log.Info("run %s: classify", r.id)

	proj, cls, err := p.store.Models()
	if err != nil {
		return r.fail(err)
	}

	if err := p.extract(ctx, r, src); err != nil {
		return r.fail(err)
	}
	if err := p.predict(r, proj, cls); err != nil {
		return r.fail(err)
	}

	r.enter(StageCompleted)
	p.log.Info("run %s: completed with %s (code %d)", r.id, r.result.Label, r.result.ClassCode())
	return r.result, nil
}

// ExtractFeatures runs the image stages only and stops at Assembled.
// No model is needed.
func (p *Pipeline) ExtractFeatures(ctx context.Context, src Source) (*Result, error) {
	r := newRun(p.newID(), p.log)
	p.log.Info("run %s: extract features", r.id)

	if err := p.extract(ctx, r, src); err != nil {
		return r.fail(err)
	}
	return r.result, nil
}

// ClassifyFeatures classifies an already assembled feature vector, skipping
// the image stages.
func (p *Pipeline) ClassifyFeatures(ctx context.Context, features []float64) (*Result, error) {
	r := newRun(p.newID(), p.log)

	proj, cls, err := p.store.Models()
	if err != nil {
		return r.fail(err)
	}
	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}

	r.result.Features = append([]float64(nil), features...)
	r.enter(StageAssembled)
	if err := p.predict(r, proj, cls); err != nil {
		return r.fail(err)
	}
	r.enter(StageCompleted)
	return r.result, nil
}

// extract moves a run from Start to Assembled.
func (p *Pipeline) extract(ctx context.Context, r *run, src Source) error {
	canonical, err := src()
	if err != nil {
		return err
	}
	r.result.Canonical = canonical
	r.enter(StageIngested)

	regions, err := leads.Segment(canonical)
	if err != nil {
		return err
	}
	r.result.Regions = regions
	r.enter(StageSegmented)

	outputs, err := processLeads(ctx, regions[:leads.ModelLeads], p.workers)
	if err != nil {
		return err
	}
	r.result.Outputs = outputs

	vectors := make([]waveform.Vector, len(outputs))
	r.result.Leads = make([]LeadReport, len(outputs))
	for i, out := range outputs {
		vectors[i] = out.Vector()
		r.result.Leads[i] = out.Report
		switch out.Report.Status {
		case LeadNoContour:
			p.log.Warning("run %s: lead %d (%s): no contour found", r.id, out.Report.Index, out.Report.Name)
		case LeadDegenerate:
			p.log.Warning("run %s: lead %d (%s): degenerate waveform", r.id, out.Report.Index, out.Report.Name)
		}
	}
	r.enter(StageLeadsProcessed)

	feats, err := p.assembler.Assemble(vectors)
	if err != nil {
		return err
	}
	if len(feats.Missing) > 0 {
		p.log.Warning("run %s: zero-padded leads %v", r.id, feats.Missing)
	}
	r.result.Features = feats.Values
	r.result.Missing = feats.Missing
	r.enter(StageAssembled)
	return nil
}

// predict moves a run from Assembled to Classified.
func (p *Pipeline) predict(r *run, proj model.Projection, cls model.Classifier) error {
	reduced, err := proj.Transform(r.result.Features)
	if err != nil {
		return err
	}
	r.result.Reduced = reduced
	r.enter(StageReduced)

	code, err := cls.Predict(reduced)
	if err != nil {
		return fmt.Errorf("failed to classify: %w", err)
	}
	label := p.labels.Lookup(code)
	r.result.Code = &code
	r.result.Label = label
	r.result.Message = label.Message()
	r.enter(StageClassified)
	return nil
}
