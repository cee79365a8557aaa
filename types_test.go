package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLifecycleEvent(t *testing.T) {
	data := []byte(`{
		"topic": "challenge.notification.events",
		"originator": "challenge.service",
		"payload": {"phaseTypeName": "Review", "state": "End", "projectId": 30054545}
	}`)

	ev, err := ParseLifecycleEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "challenge.notification.events", ev.Topic)
	assert.Equal(t, "challenge.service", ev.Originator)
	assert.Equal(t, int64(30054545), ev.Payload.ProjectID)
	assert.True(t, ev.Payload.IsReviewEnd())
}

func TestParseLifecycleEvent_RatingEvent(t *testing.T) {
	data := []byte(`{
		"topic": "rating.service.events",
		"originator": "rating.calculation.service",
		"payload": {"event": "RATINGS_CALCULATION", "status": "SUCCESS", "roundId": 2001}
	}`)

	ev, err := ParseLifecycleEvent(data)
	require.NoError(t, err)
	assert.Equal(t, EventRatingsCalculation, ev.Payload.Event)
	assert.Equal(t, int64(2001), ev.Payload.RoundID)
	assert.True(t, ev.Payload.IsSuccess())
}

func TestParseLifecycleEvent_MalformedJSON(t *testing.T) {
	_, err := ParseLifecycleEvent([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseLifecycleEvent_MissingTopic(t *testing.T) {
	_, err := ParseLifecycleEvent([]byte(`{"payload":{}}`))
	assert.Error(t, err)
}

func TestEventPayload_IsReviewEnd(t *testing.T) {
	tests := []struct {
		name    string
		payload EventPayload
		want    bool
	}{
		{"exact", EventPayload{PhaseTypeName: "review", State: "end"}, true},
		{"title case", EventPayload{PhaseTypeName: "Review", State: "End"}, true},
		{"upper case", EventPayload{PhaseTypeName: "REVIEW", State: "END"}, true},
		{"wrong phase", EventPayload{PhaseTypeName: "Submission", State: "End"}, false},
		{"wrong state", EventPayload{PhaseTypeName: "Review", State: "Start"}, false},
		{"empty", EventPayload{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.IsReviewEnd())
		})
	}
}

func TestEventPayload_IsSuccess(t *testing.T) {
	assert.True(t, EventPayload{Status: "SUCCESS"}.IsSuccess())
	assert.True(t, EventPayload{Status: "success"}.IsSuccess())
	assert.False(t, EventPayload{Status: "FAILURE"}.IsSuccess())
	assert.False(t, EventPayload{}.IsSuccess())
}

func TestChallenge_IsMarathonMatch(t *testing.T) {
	assert.True(t, Challenge{SubTrack: "DEVELOP_MARATHON_MATCH"}.IsMarathonMatch())
	assert.True(t, Challenge{SubTrack: "develop_marathon_match"}.IsMarathonMatch())
	assert.False(t, Challenge{SubTrack: "DEVELOP_FIRST_2_FINISH"}.IsMarathonMatch())
	assert.False(t, Challenge{}.IsMarathonMatch())
}

func TestSubmission_Reviewed(t *testing.T) {
	assert.False(t, Submission{MemberID: 1, Created: time.Now()}.Reviewed())
	assert.True(t, Submission{
		MemberID:        1,
		Created:         time.Now(),
		ReviewSummation: &ReviewSummation{AggregateScore: 91.5, IsPassing: true},
	}.Reviewed())
}
