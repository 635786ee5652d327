// Package pipeline runs the three completion stages over a batch of reviews:
// pros/cons extraction, theme grouping and the final summary. Each stage's raw
// text is the next stage's input; nothing in between is parsed.
package pipeline

import (
	"context"
	"log/slog"
	"reviewsense/internal/model"
	"reviewsense/pkg/llm"
	"time"

	"github.com/google/uuid"
)

type Stage int

const (
	StageExtraction Stage = iota + 1
	StageGrouping
	StageSummary
)

func (s Stage) String() string {
	switch s {
	case StageExtraction:
		return "extraction"
	case StageGrouping:
		return "grouping"
	case StageSummary:
		return "summary"
	}
	return "unknown"
}

type State string

const (
	StateExtracting       State = "extracting"
	StateGrouping         State = "grouping"
	StateSummarizing      State = "summarizing"
	StateDone             State = "done"
	StateExtractionFailed State = "extraction_failed"
	StateGroupingFailed   State = "grouping_failed"
	StateSummaryFailed    State = "summary_failed"
)

// Failed reports whether s is one of the terminal failure states.
func (s State) Failed() bool {
	return s == StateExtractionFailed || s == StateGroupingFailed || s == StateSummaryFailed
}

type Phase string

const (
	PhaseStarted   Phase = "started"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Event is published before and after each stage's completion call.
type Event struct {
	RunID    string
	Stage    Stage
	Phase    Phase
	Output   string
	Err      error
	Duration time.Duration
}

// ProgressFunc receives events synchronously, in order, on the goroutine
// running the pipeline.
type ProgressFunc func(Event)

type Result struct {
	RunID      string
	State      State
	Extraction string
	Grouping   string
	Summary    string
	Err        error
	Durations  map[Stage]time.Duration
}

type Pipeline struct {
	client llm.Completer
	model  string
}

func New(client llm.Completer, model string) *Pipeline {
	return &Pipeline{client: client, model: model}
}

// Run executes the stages in order and stops at the first failure, keeping
// the outputs of the stages that already finished. progress may be nil.
func (p *Pipeline) Run(ctx context.Context, reviews []model.Review, progress ProgressFunc) *Result {
	res := &Result{
		RunID:     uuid.NewString(),
		State:     StateExtracting,
		Durations: make(map[Stage]time.Duration, 3),
	}
	if progress == nil {
		progress = func(Event) {}
	}

	slog.Info("starting summary run", "run_id", res.RunID, "count", len(reviews))

	extraction, err := p.runStage(ctx, res, StageExtraction, progress, []llm.Message{
		{Role: llm.RoleSystem, Content: llm.ExtractionSystemPrompt},
		{Role: llm.RoleUser, Content: llm.BuildExtractionPrompt(reviews)},
	})
	if err != nil {
		res.State = StateExtractionFailed
		res.Err = err
		return res
	}
	res.Extraction = extraction
	res.State = StateGrouping

	grouping, err := p.runStage(ctx, res, StageGrouping, progress, []llm.Message{
		{Role: llm.RoleUser, Content: llm.BuildGroupingPrompt(extraction)},
	})
	if err != nil {
		res.State = StateGroupingFailed
		res.Err = err
		return res
	}
	res.Grouping = grouping
	res.State = StateSummarizing

	summary, err := p.runStage(ctx, res, StageSummary, progress, []llm.Message{
		{Role: llm.RoleUser, Content: llm.BuildSummaryPrompt(grouping)},
	})
	if err != nil {
		res.State = StateSummaryFailed
		res.Err = err
		return res
	}
	res.Summary = summary
	res.State = StateDone

	slog.Info("summary run finished", "run_id", res.RunID)
	return res
}

func (p *Pipeline) runStage(ctx context.Context, res *Result, stage Stage, progress ProgressFunc, messages []llm.Message) (string, error) {
	progress(Event{RunID: res.RunID, Stage: stage, Phase: PhaseStarted})

	start := time.Now()
	output, err := p.client.Complete(ctx, p.model, messages)
	elapsed := time.Since(start)
	res.Durations[stage] = elapsed

	if err != nil {
		slog.Error("stage failed", "run_id", res.RunID, "stage", stage.String(), "duration_ms", elapsed.Milliseconds(), "error", err)
		progress(Event{RunID: res.RunID, Stage: stage, Phase: PhaseFailed, Err: err, Duration: elapsed})
		return "", err
	}

	slog.Info("stage completed", "run_id", res.RunID, "stage", stage.String(), "duration_ms", elapsed.Milliseconds())
	progress(Event{RunID: res.RunID, Stage: stage, Phase: PhaseCompleted, Output: output, Duration: elapsed})
	return output, nil
}
