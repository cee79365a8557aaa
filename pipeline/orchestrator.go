// Package pipeline routes bus events to the rating pipeline stages. The
// orchestrator is stateless: every inbound event is mapped to its next stage
// by inspecting the event alone, so redelivered or interleaved messages never
// corrupt a stored state machine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	processor "github.com/topcoder-platform/member-profile-processor"
	"github.com/topcoder-platform/member-profile-processor/logging"
	"github.com/topcoder-platform/member-profile-processor/metrics"
)

// ChallengeFetcher is the subset of the challenge-service API the orchestrator
// depends on.
type ChallengeFetcher interface {
	// GetChallengeByLegacyID returns the challenge matching the legacy id.
	// Returns processor.ErrChallengeNotFound if the API has no match.
	GetChallengeByLegacyID(ctx context.Context, legacyID int64) (processor.Challenge, error)
}

// RatingsService drives the rating pipeline stages.
type RatingsService interface {
	// Calculate reconciles attendance and triggers the rating calculation.
	Calculate(ctx context.Context, challengeID string, legacyID int64) error

	// LoadCoders triggers the coder load for a round.
	LoadCoders(ctx context.Context, roundID int64) error

	// LoadRatings triggers the rating load for a round.
	LoadRatings(ctx context.Context, roundID int64) error
}

// Config holds configuration for the Orchestrator.
type Config struct {
	// LifecycleTopic is the challenge lifecycle topic (default: processor.DefaultLifecycleTopic).
	LifecycleTopic string

	// RatingTopic is the rating-service completion topic (default: processor.DefaultRatingTopic).
	RatingTopic string

	// RatingOriginator is the expected originator of rating-service events
	// (default: processor.DefaultRatingOriginator).
	RatingOriginator string

	// API is the challenge-service client (required).
	API ChallengeFetcher

	// Ratings drives the pipeline stages (required).
	Ratings RatingsService

	// Logger is for observability (optional).
	Logger logging.Logger
}

// Orchestrator maps inbound events to pipeline stages and dispatches them.
type Orchestrator struct {
	lifecycleTopic   string
	ratingTopic      string
	ratingOriginator string
	api              ChallengeFetcher
	ratings          RatingsService
	logger           logging.Logger
}

// New creates an Orchestrator with the given configuration, applying defaults
// for the topics, originator, and logger.
func New(cfg Config) *Orchestrator {
	if cfg.LifecycleTopic == "" {
		cfg.LifecycleTopic = processor.DefaultLifecycleTopic
	}
	if cfg.RatingTopic == "" {
		cfg.RatingTopic = processor.DefaultRatingTopic
	}
	if cfg.RatingOriginator == "" {
		cfg.RatingOriginator = processor.DefaultRatingOriginator
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Orchestrator{
		lifecycleTopic:   cfg.LifecycleTopic,
		ratingTopic:      cfg.RatingTopic,
		ratingOriginator: cfg.RatingOriginator,
		api:              cfg.API,
		ratings:          cfg.Ratings,
		logger:           cfg.Logger,
	}
}

// Next derives the pipeline stage an event maps to. It is a pure function of
// the event: no stored state is consulted or mutated.
func (o *Orchestrator) Next(ev processor.LifecycleEvent) processor.PipelineStage {
	switch ev.Topic {
	case o.lifecycleTopic:
		if ev.Payload.IsReviewEnd() {
			return processor.StageCalculating
		}
	case o.ratingTopic:
		if !strings.EqualFold(ev.Originator, o.ratingOriginator) || !ev.Payload.IsSuccess() {
			break
		}
		switch {
		case strings.EqualFold(ev.Payload.Event, processor.EventRatingsCalculation):
			return processor.StageLoadingCoders
		case strings.EqualFold(ev.Payload.Event, processor.EventCodersLoad):
			return processor.StageLoadingRatings
		case strings.EqualFold(ev.Payload.Event, processor.EventRatingsLoad):
			return processor.StageComplete
		}
	}

	return processor.StageAwaitingReview
}

// Handle dispatches one event to its pipeline stage. Events that map to no
// stage, reference a non-marathon challenge, or reference an unknown challenge
// are skipped without error so the consumer commits and moves on.
func (o *Orchestrator) Handle(ctx context.Context, ev processor.LifecycleEvent) error {
	stage := o.Next(ev)

	switch stage {
	case processor.StageCalculating:
		return o.handleReviewEnd(ctx, ev)

	case processor.StageLoadingCoders:
		metrics.StageTriggersTotal.WithLabelValues(string(stage)).Inc()
		o.logger.Info("rating calculation succeeded, loading coders", "roundId", ev.Payload.RoundID)
		return o.ratings.LoadCoders(ctx, ev.Payload.RoundID)

	case processor.StageLoadingRatings:
		metrics.StageTriggersTotal.WithLabelValues(string(stage)).Inc()
		o.logger.Info("coder load succeeded, loading ratings", "roundId", ev.Payload.RoundID)
		return o.ratings.LoadRatings(ctx, ev.Payload.RoundID)

	case processor.StageComplete:
		metrics.StageTriggersTotal.WithLabelValues(string(stage)).Inc()
		o.logger.Info("rating pipeline complete", "roundId", ev.Payload.RoundID)
		return nil

	default:
		o.logger.Debug("event does not advance the pipeline", "topic", ev.Topic)
		return nil
	}
}

// handleReviewEnd begins the pipeline for a finished review phase: it fetches
// the challenge, applies the marathon-match guard, and starts the attendance
// reconciliation and rating calculation.
func (o *Orchestrator) handleReviewEnd(ctx context.Context, ev processor.LifecycleEvent) error {
	legacyID := ev.Payload.ProjectID
	log := o.logger.With("legacyId", legacyID)

	challenge, err := o.api.GetChallengeByLegacyID(ctx, legacyID)
	if err != nil {
		if errors.Is(err, processor.ErrChallengeNotFound) {
			log.Warn("no challenge for legacy id, skipping")
			return nil
		}
		return fmt.Errorf("failed to fetch challenge for legacy id %d: %w", legacyID, err)
	}

	if !challenge.IsMarathonMatch() {
		log.Debug("challenge is not a marathon match, skipping", "subTrack", challenge.SubTrack)
		return nil
	}

	metrics.StageTriggersTotal.WithLabelValues(string(processor.StageCalculating)).Inc()
	log.Info("review phase ended, starting rating calculation", "challengeId", challenge.ID)
	return o.ratings.Calculate(ctx, challenge.ID, challenge.LegacyID)
}
