package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
	"github.com/ironsheep/ecg-tools-mcp/internal/model"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

func TestClassify_BlankImageFailsWithEmptyFeatureVector(t *testing.T) {
	p := New(createStubStore(t), Options{Workers: 4})

	res, err := p.Classify(context.Background(), FromCanonical(createBlankCanonical()))
	if err == nil {
		t.Fatal("expected failure on blank image")
	}
	if KindOf(err) != KindEmptyFeatureVector {
		t.Errorf("kind: got %s, want %s", KindOf(err), KindEmptyFeatureVector)
	}

	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RunError, got %T", err)
	}
	if re.Stage != StageLeadsProcessed {
		t.Errorf("failing stage: got %s, want %s", re.Stage, StageLeadsProcessed)
	}
	if re.RunID == "" || re.RunID != res.RunID {
		t.Errorf("run id mismatch: error %q, result %q", re.RunID, res.RunID)
	}

	if res.Stage != StageFailed {
		t.Errorf("result stage: got %s, want %s", res.Stage, StageFailed)
	}
	if res.Code != nil || res.Label != "" {
		t.Errorf("failed run carries a classification: %s (code %d)", res.Label, res.ClassCode())
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"code"`) {
		t.Errorf("failed run serializes a code: %s", data)
	}
	if len(res.Leads) != 12 {
		t.Fatalf("lead reports: got %d, want 12", len(res.Leads))
	}
	for _, l := range res.Leads {
		if l.Status != LeadNoContour || l.Kind != KindNoContour {
			t.Errorf("lead %d: got %s/%s, want no contour", l.Index, l.Status, l.Kind)
		}
	}
}

func TestClassify_FlatLinesCompleteWithZeroVectors(t *testing.T) {
	p := New(createStubStore(t), Options{Workers: 3})

	res, err := p.Classify(context.Background(), FromCanonical(createLineCanonical(4, 0, 1, 2)))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Stage != StageCompleted {
		t.Fatalf("stage: got %s, want %s", res.Stage, StageCompleted)
	}

	want := []Stage{
		StageStart, StageIngested, StageSegmented, StageLeadsProcessed,
		StageAssembled, StageReduced, StageClassified, StageCompleted,
	}
	if len(res.Stages) != len(want) {
		t.Fatalf("stages: got %v, want %v", res.Stages, want)
	}
	for i := range want {
		if res.Stages[i] != want[i] {
			t.Errorf("stage %d: got %s, want %s", i, res.Stages[i], want[i])
		}
	}

	for _, l := range res.Leads {
		if l.Status != LeadDegenerate {
			t.Errorf("lead %d: status %s, want %s", l.Index, l.Status, LeadDegenerate)
		}
	}
	if len(res.Features) != waveform.FeatureLength {
		t.Fatalf("features: got %d, want %d", len(res.Features), waveform.FeatureLength)
	}
	for i, v := range res.Features {
		if v != 0 {
			t.Fatalf("feature %d: got %v, want 0", i, v)
		}
	}

	// All-zero features score 0.5 only on the code 3 row
	if res.ClassCode() != 3 || res.Label != model.HistoryOfMI {
		t.Errorf("label: got %s (code %d), want %s (code 3)", res.Label, res.ClassCode(), model.HistoryOfMI)
	}
	if res.Message != model.HistoryOfMI.Message() {
		t.Errorf("message: got %q", res.Message)
	}
}

func TestClassifyFeatures_LabelTable(t *testing.T) {
	p := New(createStubStore(t), Options{})

	tests := []struct {
		name     string
		features []float64
		wantCode int
		want     model.Label
	}{
		{"code 0", createFeatures(1, 0), 0, model.AbnormalHeartbeat},
		{"code 1", createFeatures(0, 1), 1, model.MyocardialInfarction},
		{"code 2", createFeatures(-1, 0), 2, model.Normal},
		{"code 3", createFeatures(0, -1), 3, model.HistoryOfMI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ClassifyFeatures(context.Background(), tt.features)
			if err != nil {
				t.Fatalf("ClassifyFeatures failed: %v", err)
			}
			if res.ClassCode() != tt.wantCode || res.Label != tt.want {
				t.Errorf("got %s (code %d), want %s (code %d)", res.Label, res.ClassCode(), tt.want, tt.wantCode)
			}
		})
	}
}

func TestClassifyFeatures_CustomLabelTable(t *testing.T) {
	table, err := model.NewLabelTable(map[int]string{0: "Normal"}, "MyocardialInfarction")
	if err != nil {
		t.Fatalf("NewLabelTable failed: %v", err)
	}
	p := New(createStubStore(t), Options{Labels: &table})

	res, err := p.ClassifyFeatures(context.Background(), createFeatures(1, 0))
	if err != nil {
		t.Fatalf("ClassifyFeatures failed: %v", err)
	}
	if res.Label != model.Normal {
		t.Errorf("code 0: got %s, want %s", res.Label, model.Normal)
	}

	res, err = p.ClassifyFeatures(context.Background(), createFeatures(0, 1))
	if err != nil {
		t.Fatalf("ClassifyFeatures failed: %v", err)
	}
	if res.Label != model.MyocardialInfarction {
		t.Errorf("unmapped code: got %s, want fallback %s", res.Label, model.MyocardialInfarction)
	}
}

func TestClassify_MissingArtifactTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	store := model.NewStore(filepath.Join(dir, "projection.yaml"), filepath.Join(dir, "classifier.yaml"))
	p := New(store, Options{})

	imgPath := filepath.Join(dir, "ecg.png")
	if err := os.WriteFile(imgPath, []byte("unused"), 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	cache := imaging.NewCanonicalCache(0)

	called := false
	src := func() (*imaging.Matrix, error) {
		called = true
		return FromPath(cache, imgPath)()
	}

	res, err := p.Classify(context.Background(), src)
	if KindOf(err) != KindModelArtifactMissing {
		t.Fatalf("kind: got %s (%v), want %s", KindOf(err), err, KindModelArtifactMissing)
	}
	if !errors.Is(err, model.ErrArtifactMissing) {
		t.Error("error should wrap model.ErrArtifactMissing")
	}
	if called {
		t.Error("image source was read before models were resolved")
	}
	if cache.Len() != 0 {
		t.Errorf("cache should stay empty, has %d entries", cache.Len())
	}
	if len(res.Stages) != 2 || res.Stages[0] != StageStart || res.Stages[1] != StageFailed {
		t.Errorf("stages: got %v, want [Start Failed]", res.Stages)
	}
	if res.Features != nil || res.Leads != nil {
		t.Error("failed run should carry no features or lead reports")
	}
}

func TestClassify_FatalErrors(t *testing.T) {
	shortProj, err := model.NewPCA(make([]float64, 10), [][]float64{make([]float64, 10)}, nil, false)
	if err != nil {
		t.Fatalf("NewPCA failed: %v", err)
	}
	cls, err := model.NewLDA([]int{0, 1}, [][]float64{{1}}, []float64{0})
	if err != nil {
		t.Fatalf("NewLDA failed: %v", err)
	}

	tests := []struct {
		name      string
		store     *model.Store
		src       Source
		wantKind  ErrorKind
		wantStage Stage
	}{
		{"decode", createStubStore(t), FromBytes([]byte("not an image")), KindDecode, StageStart},
		{"empty bytes", createStubStore(t), FromBytes(nil), KindDecode, StageStart},
		{"geometry", createStubStore(t), FromCanonical(imaging.NewMatrix(10, 10)), KindGeometryMismatch, StageIngested},
		{"shape", model.NewStaticStore(shortProj, cls), FromCanonical(createLineCanonical(4, 0)), KindModelShapeMismatch, StageAssembled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.store, Options{}).Classify(context.Background(), tt.src)
			var re *RunError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RunError, got %v", err)
			}
			if re.Kind != tt.wantKind {
				t.Errorf("kind: got %s, want %s", re.Kind, tt.wantKind)
			}
			if re.Stage != tt.wantStage {
				t.Errorf("stage: got %s, want %s", re.Stage, tt.wantStage)
			}
		})
	}
}

func TestExtractFeatures_MissingLeadPolicy(t *testing.T) {
	// Only the first row band carries a trace; leads 5-12 are blank
	canonical := createLineCanonical(4, 0)

	res, err := New(nil, Options{}).ExtractFeatures(context.Background(), FromCanonical(canonical))
	if err != nil {
		t.Fatalf("zero-pad: ExtractFeatures failed: %v", err)
	}
	if len(res.Features) != waveform.FeatureLength {
		t.Errorf("zero-pad: length %d, want %d", len(res.Features), waveform.FeatureLength)
	}
	if len(res.Missing) != 8 || res.Missing[0] != 5 || res.Missing[7] != 12 {
		t.Errorf("zero-pad: missing %v, want [5..12]", res.Missing)
	}
	if res.Stage != StageAssembled {
		t.Errorf("zero-pad: stage %s, want %s", res.Stage, StageAssembled)
	}

	_, err = New(nil, Options{Policy: waveform.PolicyFail}).ExtractFeatures(context.Background(), FromCanonical(canonical))
	if KindOf(err) != KindMissingLead {
		t.Errorf("fail policy: kind %s (%v), want %s", KindOf(err), err, KindMissingLead)
	}
}

func TestExtractFeatures_Deterministic(t *testing.T) {
	canonical := createSineCanonical()

	first, err := New(nil, Options{Workers: 1}).ExtractFeatures(context.Background(), FromCanonical(canonical))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := New(nil, Options{Workers: 12}).ExtractFeatures(context.Background(), FromCanonical(canonical))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.RunID == second.RunID {
		t.Error("runs should get distinct identifiers")
	}
	for _, l := range first.Leads {
		if l.Status == LeadNoContour {
			t.Errorf("lead %d: unexpected no contour", l.Index)
		}
	}
	for i := range first.Features {
		v := first.Features[i]
		if v != second.Features[i] {
			t.Fatalf("feature %d differs: %v vs %v", i, v, second.Features[i])
		}
		if v < 0 || v > 1+1e-12 {
			t.Fatalf("feature %d out of range: %v", i, v)
		}
	}
}

func TestExtractFeatures_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, Options{}).ExtractFeatures(ctx, FromCanonical(createBlankCanonical()))
	if KindOf(err) != KindCanceled {
		t.Errorf("kind: got %s, want %s", KindOf(err), KindCanceled)
	}
}
