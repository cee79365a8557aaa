package ratings

import (
	"context"
	"sync"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// MockChallengeAPI is a configurable mock implementation of ChallengeAPI for
// use in tests. It allows setting up return values, tracking method calls,
// and injecting errors for testing error paths.
type MockChallengeAPI struct {
	mu sync.RWMutex

	// ListSubmissionsFunc is called by ListSubmissions if set.
	ListSubmissionsFunc func(ctx context.Context, challengeID string) ([]processor.Submission, error)

	// InitiateRatingCalculationFunc is called by InitiateRatingCalculation if set.
	InitiateRatingCalculationFunc func(ctx context.Context, roundID int64) error

	// InitiateLoadCodersFunc is called by InitiateLoadCoders if set.
	InitiateLoadCodersFunc func(ctx context.Context, roundID int64) error

	// InitiateLoadRatingsFunc is called by InitiateLoadRatings if set.
	InitiateLoadRatingsFunc func(ctx context.Context, roundID int64) error

	// Call tracking
	ListSubmissionsCalls           []string
	InitiateRatingCalculationCalls []int64
	InitiateLoadCodersCalls        []int64
	InitiateLoadRatingsCalls       []int64
}

// NewMockChallengeAPI creates a new mock challenge API.
func NewMockChallengeAPI() *MockChallengeAPI {
	return &MockChallengeAPI{}
}

// ListSubmissions implements ChallengeAPI.
func (m *MockChallengeAPI) ListSubmissions(ctx context.Context, challengeID string) ([]processor.Submission, error) {
	m.mu.Lock()
	m.ListSubmissionsCalls = append(m.ListSubmissionsCalls, challengeID)
	fn := m.ListSubmissionsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, challengeID)
	}
	return nil, nil
}

// InitiateRatingCalculation implements ChallengeAPI.
func (m *MockChallengeAPI) InitiateRatingCalculation(ctx context.Context, roundID int64) error {
	m.mu.Lock()
	m.InitiateRatingCalculationCalls = append(m.InitiateRatingCalculationCalls, roundID)
	fn := m.InitiateRatingCalculationFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil
}

// InitiateLoadCoders implements ChallengeAPI.
func (m *MockChallengeAPI) InitiateLoadCoders(ctx context.Context, roundID int64) error {
	m.mu.Lock()
	m.InitiateLoadCodersCalls = append(m.InitiateLoadCodersCalls, roundID)
	fn := m.InitiateLoadCodersFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil
}

// InitiateLoadRatings implements ChallengeAPI.
func (m *MockChallengeAPI) InitiateLoadRatings(ctx context.Context, roundID int64) error {
	m.mu.Lock()
	m.InitiateLoadRatingsCalls = append(m.InitiateLoadRatingsCalls, roundID)
	fn := m.InitiateLoadRatingsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil
}

// Reset clears all recorded calls.
func (m *MockChallengeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListSubmissionsCalls = nil
	m.InitiateRatingCalculationCalls = nil
	m.InitiateLoadCodersCalls = nil
	m.InitiateLoadRatingsCalls = nil
}
