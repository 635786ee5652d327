package pipeline

import (
	"context"
	"errors"
	"reviewsense/internal/model"
	"reviewsense/pkg/llm"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeCompleter struct {
	replies []string
	failAt  int
	err     error
	calls   [][]llm.Message
	models  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, model string, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	f.models = append(f.models, model)
	if f.failAt == len(f.calls) {
		return "", f.err
	}
	return f.replies[len(f.calls)-1], nil
}

func testReviews() []model.Review {
	return []model.Review{{Name: "A", Rating: 4, Title: "Good", Review: "Great battery, poor speaker."}}
}

func TestRun_AllStages(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"STAGE-ONE", "STAGE-TWO", "STAGE-THREE"}}
	p := New(fake, "gpt-4")

	var events []Event
	res := p.Run(context.Background(), testReviews(), func(e Event) { events = append(events, e) })

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, nil, res.Err)
	assert.Equal(t, "STAGE-ONE", res.Extraction)
	assert.Equal(t, "STAGE-TWO", res.Grouping)
	assert.Equal(t, "STAGE-THREE", res.Summary)
	assert.NotEqual(t, "", res.RunID)
	assert.Equal(t, 3, len(res.Durations))

	assert.Equal(t, 3, len(fake.calls))
	assert.Equal(t, []string{"gpt-4", "gpt-4", "gpt-4"}, fake.models)

	assert.Equal(t, 2, len(fake.calls[0]))
	assert.Equal(t, llm.RoleSystem, fake.calls[0][0].Role)
	assert.Equal(t, true, strings.Contains(fake.calls[0][1].Content, "Great battery, poor speaker."))

	assert.Equal(t, 1, len(fake.calls[1]))
	assert.Equal(t, true, strings.Contains(fake.calls[1][0].Content, "STAGE-ONE"))
	assert.Equal(t, 1, len(fake.calls[2]))
	assert.Equal(t, true, strings.Contains(fake.calls[2][0].Content, "STAGE-TWO"))

	assert.Equal(t, 6, len(events))
	wantOrder := []struct {
		stage Stage
		phase Phase
	}{
		{StageExtraction, PhaseStarted}, {StageExtraction, PhaseCompleted},
		{StageGrouping, PhaseStarted}, {StageGrouping, PhaseCompleted},
		{StageSummary, PhaseStarted}, {StageSummary, PhaseCompleted},
	}
	for i, w := range wantOrder {
		assert.Equal(t, w.stage, events[i].Stage)
		assert.Equal(t, w.phase, events[i].Phase)
		assert.Equal(t, res.RunID, events[i].RunID)
	}
	assert.Equal(t, "STAGE-ONE", events[1].Output)
}

func TestRun_ExtractionFails(t *testing.T) {
	upstream := &llm.UpstreamError{Provider: "openai", Err: errors.New("connection refused")}
	fake := &fakeCompleter{failAt: 1, err: upstream}

	res := New(fake, "gpt-4").Run(context.Background(), testReviews(), nil)

	assert.Equal(t, StateExtractionFailed, res.State)
	assert.Equal(t, true, res.State.Failed())
	assert.Equal(t, 1, len(fake.calls))
	assert.Equal(t, "", res.Extraction)
	assert.Equal(t, true, errors.Is(res.Err, upstream))
}

func TestRun_GroupingFailsKeepsExtraction(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"STAGE-ONE"}, failAt: 2, err: errors.New("quota")}

	var events []Event
	res := New(fake, "gpt-4").Run(context.Background(), testReviews(), func(e Event) { events = append(events, e) })

	assert.Equal(t, StateGroupingFailed, res.State)
	assert.Equal(t, "STAGE-ONE", res.Extraction)
	assert.Equal(t, "", res.Grouping)
	assert.Equal(t, "", res.Summary)
	assert.Equal(t, 2, len(fake.calls))
	assert.Equal(t, 4, len(events))
	assert.Equal(t, PhaseFailed, events[3].Phase)
	assert.Equal(t, StageGrouping, events[3].Stage)
}

func TestRun_SummaryFailsKeepsEarlierStages(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"STAGE-ONE", "STAGE-TWO"}, failAt: 3, err: errors.New("bad response")}

	res := New(fake, "gpt-4").Run(context.Background(), testReviews(), nil)

	assert.Equal(t, StateSummaryFailed, res.State)
	assert.Equal(t, "STAGE-ONE", res.Extraction)
	assert.Equal(t, "STAGE-TWO", res.Grouping)
	assert.Equal(t, "", res.Summary)
	assert.NotEqual(t, nil, res.Err)
}

func TestStateFailed(t *testing.T) {
	assert.Equal(t, false, StateDone.Failed())
	assert.Equal(t, false, StateGrouping.Failed())
	assert.Equal(t, true, StateSummaryFailed.Failed())
}
