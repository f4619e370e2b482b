package pipeline

import (
	"github.com/ironsheep/ecg-tools-mcp/internal/logger"
)

// Stage is a state of a pipeline run.
type Stage string

const (
	StageStart          Stage = "Start"
	StageIngested       Stage = "Ingested"
	StageSegmented      Stage = "Segmented"
	StageLeadsProcessed Stage = "LeadsProcessed"
	StageAssembled      Stage = "Assembled"
	StageReduced        Stage = "Reduced"
	StageClassified     Stage = "Classified"
	StageCompleted      Stage = "Completed"
	StageFailed         Stage = "Failed"
)

// run tracks the stage history of one execution.
type run struct {
	id     string
	log    *logger.Logger
	result *Result
}

func newRun(id string, log *logger.Logger) *run {
	r := &run{id: id, log: log, result: &Result{RunID: id}}
	r.enter(StageStart)
	return r
}

func (r *run) enter(s Stage) {
	r.result.Stage = s
	r.result.Stages = append(r.result.Stages, s)
	r.log.Debug("run %s: %s", r.id, s)
}

// fail moves the run to Failed and returns the terminal error. The stage
// recorded on the error is the last stage reached before the failure.
func (r *run) fail(err error) (*Result, error) {
	kind := KindOf(err)
	re := &RunError{RunID: r.id, Stage: r.result.Stage, Kind: kind, Err: err}
	r.result.Kind = kind
	r.enter(StageFailed)
	r.log.Error("run %s failed at %s: %s: %v", r.id, re.Stage, kind, err)
	return r.result, re
}
