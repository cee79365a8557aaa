package processor

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Event contract literals. Topic names are configurable per deployment; the
// payload literals below are the canonical producer contract and are compared
// case-insensitively where the producers have historically been inconsistent.
const (
	// DefaultLifecycleTopic carries challenge phase transition notifications.
	DefaultLifecycleTopic = "challenge.notification.events"

	// DefaultRatingTopic carries stage-completion events from the rating service.
	DefaultRatingTopic = "rating.service.events"

	// DefaultRatingOriginator identifies the external rating calculation service.
	DefaultRatingOriginator = "rating.calculation.service"

	// PhaseTypeReview is the phase type that gates Trigger A.
	PhaseTypeReview = "review"

	// PhaseStateEnd is the phase state that gates Trigger A.
	PhaseStateEnd = "end"

	// SubTrackMarathonMatch identifies challenges whose ratings this processor drives.
	SubTrackMarathonMatch = "DEVELOP_MARATHON_MATCH"

	// EventRatingsCalculation reports completion of the rating calculation stage.
	EventRatingsCalculation = "RATINGS_CALCULATION"

	// EventCodersLoad reports completion of the coder load stage.
	EventCodersLoad = "CODERS_LOAD"

	// EventRatingsLoad reports completion of the rating load stage.
	EventRatingsLoad = "RATINGS_LOAD"

	// StatusSuccess is the completion status that advances the pipeline.
	StatusSuccess = "SUCCESS"
)

// Attendance flag values used by the legacy long_comp_result table.
const (
	AttendedYes = "Y"
	AttendedNo  = "N"
)

// PipelineStage is the stage of the rating pipeline a lifecycle event maps to.
// Stages are never persisted: the next stage is always re-derived from the
// inbound event, which keeps redelivery and cross-partition interleaving safe.
type PipelineStage string

const (
	// StageAwaitingReview is the ignored arm: the event does not advance the pipeline.
	StageAwaitingReview PipelineStage = "awaiting_review"

	// StageCalculating begins attendance reconciliation and rating calculation.
	StageCalculating PipelineStage = "calculating"

	// StageLoadingCoders triggers the coder load on the rating service.
	StageLoadingCoders PipelineStage = "loading_coders"

	// StageLoadingRatings triggers the rating load on the rating service.
	StageLoadingRatings PipelineStage = "loading_ratings"

	// StageComplete means the pipeline finished; no further action is taken.
	StageComplete PipelineStage = "complete"
)

// LifecycleEvent is one message consumed from the bus.
type LifecycleEvent struct {
	// Topic is the bus topic the message was published on.
	Topic string `json:"topic"`

	// Originator identifies the producing service, when the producer sets it.
	Originator string `json:"originator"`

	// Payload carries the trigger-specific fields.
	Payload EventPayload `json:"payload"`
}

// EventPayload is the union of fields the two trigger classes carry.
// Lifecycle notifications set PhaseTypeName, State, and ProjectID; rating
// service events set Event, Status, and RoundID.
type EventPayload struct {
	PhaseTypeName string `json:"phaseTypeName"`
	State         string `json:"state"`
	ProjectID     int64  `json:"projectId"`

	Event   string `json:"event"`
	Status  string `json:"status"`
	RoundID int64  `json:"roundId"`
}

// IsReviewEnd reports whether the payload describes the end of a review phase.
// Comparison is case-insensitive because lifecycle producers have emitted both
// "Review"/"End" and lowercase variants.
func (p EventPayload) IsReviewEnd() bool {
	return strings.EqualFold(p.PhaseTypeName, PhaseTypeReview) &&
		strings.EqualFold(p.State, PhaseStateEnd)
}

// IsSuccess reports whether the payload carries a successful completion status.
func (p EventPayload) IsSuccess() bool {
	return strings.EqualFold(p.Status, StatusSuccess)
}

// ParseLifecycleEvent decodes a raw bus message into a LifecycleEvent.
// Returns an error for malformed JSON or a message without a topic; callers
// are expected to skip (not retry) such messages.
func ParseLifecycleEvent(data []byte) (LifecycleEvent, error) {
	var ev LifecycleEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return LifecycleEvent{}, err
	}
	if ev.Topic == "" {
		return LifecycleEvent{}, errors.New("message has no topic")
	}
	return ev, nil
}

// Challenge is the challenge metadata fetched from the challenge-service API.
// Challenges are fetched on demand and never persisted by this processor.
type Challenge struct {
	// ID is the v5 challenge identifier (UUID).
	ID string

	// LegacyID is the legacy numeric project identifier.
	LegacyID int64

	// Name is the challenge display name.
	Name string

	// SubTrack is the legacy sub-track classification.
	SubTrack string
}

// IsMarathonMatch reports whether the challenge belongs to the marathon-match
// sub-track. The comparison is case-insensitive.
func (c Challenge) IsMarathonMatch() bool {
	return strings.EqualFold(c.SubTrack, SubTrackMarathonMatch)
}

// ReviewSummation is the aggregated review outcome attached to a submission
// once it has been reviewed.
type ReviewSummation struct {
	AggregateScore float64 `json:"aggregateScore"`
	IsPassing      bool    `json:"isPassing"`
}

// Submission is one member submission for a challenge. A member may have many
// submissions; only the most recent one that carries a ReviewSummation counts
// as final for attendance purposes.
type Submission struct {
	MemberID        int64            `json:"memberId"`
	Created         time.Time        `json:"created"`
	ReviewSummation *ReviewSummation `json:"reviewSummation,omitempty"`
}

// Reviewed reports whether the submission carries a review summation.
func (s Submission) Reviewed() bool {
	return s.ReviewSummation != nil
}

// AttendanceRecord is one row of the legacy long_comp_result table, keyed by
// (round, coder). The processor flips Attended from "N" to "Y" but never
// creates or deletes rows.
type AttendanceRecord struct {
	RoundID  int64
	CoderID  int64
	Attended string
}
