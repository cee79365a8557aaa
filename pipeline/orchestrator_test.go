package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	processor "github.com/topcoder-platform/member-profile-processor"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *MockChallengeFetcher, *MockRatingsService) {
	t.Helper()

	api := NewMockChallengeFetcher()
	ratings := NewMockRatingsService()
	o := New(Config{API: api, Ratings: ratings})
	return o, api, ratings
}

func reviewEndEvent(projectID int64) processor.LifecycleEvent {
	return processor.LifecycleEvent{
		Topic: processor.DefaultLifecycleTopic,
		Payload: processor.EventPayload{
			PhaseTypeName: "Review",
			State:         "End",
			ProjectID:     projectID,
		},
	}
}

func ratingEvent(event, status string, roundID int64) processor.LifecycleEvent {
	return processor.LifecycleEvent{
		Topic:      processor.DefaultRatingTopic,
		Originator: processor.DefaultRatingOriginator,
		Payload: processor.EventPayload{
			Event:   event,
			Status:  status,
			RoundID: roundID,
		},
	}
}

func TestOrchestrator_Next(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	tests := []struct {
		name  string
		event processor.LifecycleEvent
		want  processor.PipelineStage
	}{
		{"review end", reviewEndEvent(30054545), processor.StageCalculating},
		{"review end lowercase", processor.LifecycleEvent{
			Topic:   processor.DefaultLifecycleTopic,
			Payload: processor.EventPayload{PhaseTypeName: "review", State: "end"},
		}, processor.StageCalculating},
		{"review open", processor.LifecycleEvent{
			Topic:   processor.DefaultLifecycleTopic,
			Payload: processor.EventPayload{PhaseTypeName: "Review", State: "Start"},
		}, processor.StageAwaitingReview},
		{"submission phase end", processor.LifecycleEvent{
			Topic:   processor.DefaultLifecycleTopic,
			Payload: processor.EventPayload{PhaseTypeName: "Submission", State: "End"},
		}, processor.StageAwaitingReview},
		{"calculation success", ratingEvent(processor.EventRatingsCalculation, "SUCCESS", 2001), processor.StageLoadingCoders},
		{"calculation success lowercase status", ratingEvent(processor.EventRatingsCalculation, "success", 2001), processor.StageLoadingCoders},
		{"coders load success", ratingEvent(processor.EventCodersLoad, "SUCCESS", 2001), processor.StageLoadingRatings},
		{"ratings load success", ratingEvent(processor.EventRatingsLoad, "SUCCESS", 2001), processor.StageComplete},
		{"calculation failure", ratingEvent(processor.EventRatingsCalculation, "FAILURE", 2001), processor.StageAwaitingReview},
		{"unknown rating event", ratingEvent("SOMETHING_ELSE", "SUCCESS", 2001), processor.StageAwaitingReview},
		{"unknown topic", processor.LifecycleEvent{Topic: "some.other.topic"}, processor.StageAwaitingReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Next(tt.event))
		})
	}
}

func TestOrchestrator_Next_WrongOriginator(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	ev := ratingEvent(processor.EventRatingsCalculation, "SUCCESS", 2001)
	ev.Originator = "some.other.service"

	assert.Equal(t, processor.StageAwaitingReview, o.Next(ev))
}

func TestOrchestrator_Handle_ReviewEnd(t *testing.T) {
	o, api, ratings := newTestOrchestrator(t)

	api.GetChallengeByLegacyIDFunc = func(ctx context.Context, legacyID int64) (processor.Challenge, error) {
		return processor.Challenge{
			ID:       "c3564180",
			LegacyID: legacyID,
			Name:     "Marathon Match 100",
			SubTrack: processor.SubTrackMarathonMatch,
		}, nil
	}

	err := o.Handle(context.Background(), reviewEndEvent(30054545))
	require.NoError(t, err)

	assert.Equal(t, []int64{30054545}, api.GetChallengeByLegacyIDCalls)
	require.Len(t, ratings.CalculateCalls, 1)
	assert.Equal(t, CalculateCall{ChallengeID: "c3564180", LegacyID: 30054545}, ratings.CalculateCalls[0])
}

func TestOrchestrator_Handle_NonMarathonSkipped(t *testing.T) {
	o, api, ratings := newTestOrchestrator(t)

	api.GetChallengeByLegacyIDFunc = func(ctx context.Context, legacyID int64) (processor.Challenge, error) {
		return processor.Challenge{ID: "c1", LegacyID: legacyID, SubTrack: "DEVELOP_FIRST_2_FINISH"}, nil
	}

	err := o.Handle(context.Background(), reviewEndEvent(30054545))
	require.NoError(t, err)
	assert.Empty(t, ratings.CalculateCalls)
}

func TestOrchestrator_Handle_ChallengeNotFoundSkipped(t *testing.T) {
	o, _, ratings := newTestOrchestrator(t)

	// The mock returns processor.ErrChallengeNotFound by default.
	err := o.Handle(context.Background(), reviewEndEvent(30054545))
	require.NoError(t, err)
	assert.Empty(t, ratings.CalculateCalls)
}

func TestOrchestrator_Handle_ChallengeFetchError(t *testing.T) {
	o, api, ratings := newTestOrchestrator(t)
	fetchErr := errors.New("api unavailable")

	api.GetChallengeByLegacyIDFunc = func(ctx context.Context, legacyID int64) (processor.Challenge, error) {
		return processor.Challenge{}, fetchErr
	}

	err := o.Handle(context.Background(), reviewEndEvent(30054545))
	assert.ErrorIs(t, err, fetchErr)
	assert.Empty(t, ratings.CalculateCalls)
}

func TestOrchestrator_Handle_LoadCoders(t *testing.T) {
	o, _, ratings := newTestOrchestrator(t)

	err := o.Handle(context.Background(), ratingEvent(processor.EventRatingsCalculation, "SUCCESS", 2001))
	require.NoError(t, err)
	assert.Equal(t, []int64{2001}, ratings.LoadCodersCalls)
	assert.Empty(t, ratings.LoadRatingsCalls)
}

func TestOrchestrator_Handle_LoadRatings(t *testing.T) {
	o, _, ratings := newTestOrchestrator(t)

	err := o.Handle(context.Background(), ratingEvent(processor.EventCodersLoad, "SUCCESS", 2001))
	require.NoError(t, err)
	assert.Equal(t, []int64{2001}, ratings.LoadRatingsCalls)
	assert.Empty(t, ratings.LoadCodersCalls)
}

func TestOrchestrator_Handle_Complete(t *testing.T) {
	o, _, ratings := newTestOrchestrator(t)

	err := o.Handle(context.Background(), ratingEvent(processor.EventRatingsLoad, "SUCCESS", 2001))
	require.NoError(t, err)
	assert.Empty(t, ratings.LoadCodersCalls)
	assert.Empty(t, ratings.LoadRatingsCalls)
}

func TestOrchestrator_Handle_IgnoredEvent(t *testing.T) {
	o, api, ratings := newTestOrchestrator(t)

	err := o.Handle(context.Background(), processor.LifecycleEvent{Topic: "some.other.topic"})
	require.NoError(t, err)
	assert.Empty(t, api.GetChallengeByLegacyIDCalls)
	assert.Empty(t, ratings.CalculateCalls)
}

// TestOrchestrator_Handle_FullPipeline walks the four events of one marathon
// match through the orchestrator in order.
func TestOrchestrator_Handle_FullPipeline(t *testing.T) {
	o, api, ratings := newTestOrchestrator(t)
	ctx := context.Background()

	api.GetChallengeByLegacyIDFunc = func(ctx context.Context, legacyID int64) (processor.Challenge, error) {
		return processor.Challenge{
			ID:       "c3564180",
			LegacyID: legacyID,
			SubTrack: processor.SubTrackMarathonMatch,
		}, nil
	}

	require.NoError(t, o.Handle(ctx, reviewEndEvent(30054545)))
	require.NoError(t, o.Handle(ctx, ratingEvent(processor.EventRatingsCalculation, "SUCCESS", 2001)))
	require.NoError(t, o.Handle(ctx, ratingEvent(processor.EventCodersLoad, "SUCCESS", 2001)))
	require.NoError(t, o.Handle(ctx, ratingEvent(processor.EventRatingsLoad, "SUCCESS", 2001)))

	assert.Len(t, ratings.CalculateCalls, 1)
	assert.Equal(t, []int64{2001}, ratings.LoadCodersCalls)
	assert.Equal(t, []int64{2001}, ratings.LoadRatingsCalls)
}
