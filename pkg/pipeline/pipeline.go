// Package pipeline runs named stages strictly in order with fail-fast
// semantics and wall-clock duration accounting. It is deliberately not a
// workflow engine: no DAG, no plugins, no concurrency.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shipgatedev/shipgate/internal/log"
	gcf "github.com/shipgatedev/shipgate/pkg/format"
)

type Status int

const (
	Pending Status = iota
	Running
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Stage is one named unit of pipeline work. Run returning an error marks the
// stage failed; errors are results here, not control flow.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

type Result struct {
	Name     string
	Status   Status
	Duration time.Duration
	Err      error
}

// RunResult is the outcome of one whole pipeline run. Results are ordered by
// execution and truncated at the first failure.
type RunResult struct {
	Results []Result
	Elapsed time.Duration
}

func (r RunResult) Failed() bool {
	for _, result := range r.Results {
		if result.Status == Failed {
			return true
		}
	}
	return false
}

func (r RunResult) Status() Status {
	if r.Failed() {
		return Failed
	}
	return Succeeded
}

func (r RunResult) String() string {
	table := new(gcf.Table).WithHeader("Stage", "Status", "Duration")
	for _, result := range r.Results {
		table = table.WithRow(result.Name, result.Status.String(), result.Duration.Round(time.Millisecond).String())
	}
	return fmt.Sprintf("%s\nTotal: %s (%s)\n", table.String(), r.Elapsed.Round(time.Millisecond), r.Status())
}

// Runner executes stages sequentially. A fresh run carries no state from
// prior runs; only the collaborators' own side effects persist.
type Runner struct {
	// StageTimeout bounds each stage. Zero means no bound. An expired stage
	// fails like any other error, so an unbounded hang in one external call
	// cannot stall the whole pipeline.
	StageTimeout time.Duration
}

// Run executes stages in order and halts on the first failure. Partial
// results up to and including the failing stage are returned, each with its
// recorded duration.
func (r *Runner) Run(ctx context.Context, stages []Stage) RunResult {
	run := RunResult{Results: make([]Result, 0, len(stages))}
	started := time.Now()

	for _, stage := range stages {
		log.Infof("stage %s: %s", stage.Name, Running)
		stageCtx, cancel := r.stageContext(ctx)
		stageStart := time.Now()
		err := stage.Run(stageCtx)
		cancel()

		result := Result{
			Name:     stage.Name,
			Status:   Succeeded,
			Duration: time.Since(stageStart),
			Err:      err,
		}
		if err != nil {
			result.Status = Failed
		}
		run.Results = append(run.Results, result)
		log.Infof("stage %s: %s in %s", stage.Name, result.Status, result.Duration.Round(time.Millisecond))

		if err != nil {
			log.Errorf("stage %s failed: %v", stage.Name, err)
			break
		}
	}

	run.Elapsed = time.Since(started)
	return run
}

func (r *Runner) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.StageTimeout)
}
