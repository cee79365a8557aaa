package ratings

import (
	"context"
	"errors"
	"fmt"

	processor "github.com/topcoder-platform/member-profile-processor"
	"github.com/topcoder-platform/member-profile-processor/logging"
	"github.com/topcoder-platform/member-profile-processor/metrics"
	"github.com/topcoder-platform/member-profile-processor/store"
)

// ChallengeAPI is the subset of the challenge-service API the ratings service
// depends on.
type ChallengeAPI interface {
	// ListSubmissions returns all submissions for a challenge across every page.
	ListSubmissions(ctx context.Context, challengeID string) ([]processor.Submission, error)

	// InitiateRatingCalculation triggers the rating calculation for a round.
	InitiateRatingCalculation(ctx context.Context, roundID int64) error

	// InitiateLoadCoders triggers the coder load for a round.
	InitiateLoadCoders(ctx context.Context, roundID int64) error

	// InitiateLoadRatings triggers the rating load for a round.
	InitiateLoadRatings(ctx context.Context, roundID int64) error
}

// Config holds configuration for the Service.
type Config struct {
	// API is the challenge-service client (required).
	API ChallengeAPI

	// Store is the legacy round and attendance gateway (required).
	Store store.LegacyStore

	// Logger is for observability (optional).
	Logger logging.Logger
}

// Service reconciles submissions against legacy attendance and triggers the
// rating pipeline stages. It holds no per-round state; every call is a
// self-contained unit of work.
type Service struct {
	api    ChallengeAPI
	store  store.LegacyStore
	logger logging.Logger
}

// New creates a Service with the given configuration.
func New(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Service{
		api:    cfg.API,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// Calculate reconciles attendance for a finished marathon match and triggers
// the rating calculation. It resolves the legacy round, reduces the
// challenge's submissions to one reviewed submission per member, flips the
// attendance flag for every such member whose legacy row still reads "N", and
// finally posts the calculation trigger. Members without a legacy attendance
// row are logged and skipped; they never fail the run.
func (s *Service) Calculate(ctx context.Context, challengeID string, legacyID int64) error {
	roundID, err := s.store.GetRoundID(ctx, legacyID)
	if err != nil {
		return fmt.Errorf("failed to resolve round for legacy id %d: %w", legacyID, err)
	}

	log := s.logger.With("challengeId", challengeID, "roundId", roundID)

	submissions, err := s.api.ListSubmissions(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("failed to list submissions for challenge %s: %w", challengeID, err)
	}

	final := FinalSubmissions(submissions)
	log.Info("reduced submissions", "total", len(submissions), "final", len(final))

	records, err := s.store.GetAttendance(ctx, roundID)
	if err != nil {
		return fmt.Errorf("failed to fetch attendance for round %d: %w", roundID, err)
	}

	attended := make(map[int64]string, len(records))
	for _, rec := range records {
		attended[rec.CoderID] = rec.Attended
	}

	for _, sub := range final {
		flag, ok := attended[sub.MemberID]
		if !ok {
			log.Warn("no attendance row for member, skipping", "memberId", sub.MemberID)
			continue
		}
		if flag == processor.AttendedYes {
			continue
		}

		if err := s.store.MarkAttended(ctx, roundID, sub.MemberID); err != nil {
			if errors.Is(err, processor.ErrAttendanceNotFound) {
				log.Warn("attendance row vanished before update, skipping", "memberId", sub.MemberID)
				continue
			}
			return fmt.Errorf("failed to mark attendance for member %d: %w", sub.MemberID, err)
		}
		metrics.AttendanceUpdatesTotal.Inc()
		log.Debug("marked member attended", "memberId", sub.MemberID)
	}

	if err := s.api.InitiateRatingCalculation(ctx, roundID); err != nil {
		return fmt.Errorf("failed to initiate rating calculation for round %d: %w", roundID, err)
	}

	log.Info("rating calculation initiated")
	return nil
}

// LoadCoders triggers the coder load for a round.
func (s *Service) LoadCoders(ctx context.Context, roundID int64) error {
	if err := s.api.InitiateLoadCoders(ctx, roundID); err != nil {
		return fmt.Errorf("failed to initiate coder load for round %d: %w", roundID, err)
	}

	s.logger.Info("coder load initiated", "roundId", roundID)
	return nil
}

// LoadRatings triggers the rating load for a round.
func (s *Service) LoadRatings(ctx context.Context, roundID int64) error {
	if err := s.api.InitiateLoadRatings(ctx, roundID); err != nil {
		return fmt.Errorf("failed to initiate rating load for round %d: %w", roundID, err)
	}

	s.logger.Info("rating load initiated", "roundId", roundID)
	return nil
}
