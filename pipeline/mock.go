package pipeline

import (
	"context"
	"sync"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// MockChallengeFetcher is a configurable mock implementation of
// ChallengeFetcher for use in tests.
type MockChallengeFetcher struct {
	mu sync.RWMutex

	// GetChallengeByLegacyIDFunc is called by GetChallengeByLegacyID if set.
	GetChallengeByLegacyIDFunc func(ctx context.Context, legacyID int64) (processor.Challenge, error)

	// Call tracking
	GetChallengeByLegacyIDCalls []int64
}

// NewMockChallengeFetcher creates a new mock challenge fetcher.
func NewMockChallengeFetcher() *MockChallengeFetcher {
	return &MockChallengeFetcher{}
}

// GetChallengeByLegacyID implements ChallengeFetcher.
func (m *MockChallengeFetcher) GetChallengeByLegacyID(ctx context.Context, legacyID int64) (processor.Challenge, error) {
	m.mu.Lock()
	m.GetChallengeByLegacyIDCalls = append(m.GetChallengeByLegacyIDCalls, legacyID)
	fn := m.GetChallengeByLegacyIDFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, legacyID)
	}
	return processor.Challenge{}, processor.ErrChallengeNotFound
}

// Reset clears all recorded calls.
func (m *MockChallengeFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetChallengeByLegacyIDCalls = nil
}

// MockRatingsService is a configurable mock implementation of RatingsService
// for use in tests.
type MockRatingsService struct {
	mu sync.RWMutex

	// CalculateFunc is called by Calculate if set.
	CalculateFunc func(ctx context.Context, challengeID string, legacyID int64) error

	// LoadCodersFunc is called by LoadCoders if set.
	LoadCodersFunc func(ctx context.Context, roundID int64) error

	// LoadRatingsFunc is called by LoadRatings if set.
	LoadRatingsFunc func(ctx context.Context, roundID int64) error

	// Call tracking
	CalculateCalls   []CalculateCall
	LoadCodersCalls  []int64
	LoadRatingsCalls []int64
}

// CalculateCall records one Calculate invocation.
type CalculateCall struct {
	ChallengeID string
	LegacyID    int64
}

// NewMockRatingsService creates a new mock ratings service.
func NewMockRatingsService() *MockRatingsService {
	return &MockRatingsService{}
}

// Calculate implements RatingsService.
func (m *MockRatingsService) Calculate(ctx context.Context, challengeID string, legacyID int64) error {
	m.mu.Lock()
	m.CalculateCalls = append(m.CalculateCalls, CalculateCall{ChallengeID: challengeID, LegacyID: legacyID})
	fn := m.CalculateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, challengeID, legacyID)
	}
	return nil
}

// LoadCoders implements RatingsService.
func (m *MockRatingsService) LoadCoders(ctx context.Context, roundID int64) error {
	m.mu.Lock()
	m.LoadCodersCalls = append(m.LoadCodersCalls, roundID)
	fn := m.LoadCodersFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil
}

// LoadRatings implements RatingsService.
func (m *MockRatingsService) LoadRatings(ctx context.Context, roundID int64) error {
	m.mu.Lock()
	m.LoadRatingsCalls = append(m.LoadRatingsCalls, roundID)
	fn := m.LoadRatingsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil
}

// Reset clears all recorded calls.
func (m *MockRatingsService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CalculateCalls = nil
	m.LoadCodersCalls = nil
	m.LoadRatingsCalls = nil
}
