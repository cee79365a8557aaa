package store

import (
	"context"
	"sync"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// MockLegacyStore is a configurable mock implementation of LegacyStore for
// use in tests. It allows setting up return values, tracking method calls,
// and injecting errors for testing error paths.
type MockLegacyStore struct {
	mu sync.RWMutex

	// GetRoundIDFunc is called by GetRoundID if set.
	GetRoundIDFunc func(ctx context.Context, legacyID int64) (int64, error)

	// GetAttendanceFunc is called by GetAttendance if set.
	GetAttendanceFunc func(ctx context.Context, roundID int64) ([]processor.AttendanceRecord, error)

	// MarkAttendedFunc is called by MarkAttended if set.
	MarkAttendedFunc func(ctx context.Context, roundID, coderID int64) error

	// Call tracking
	GetRoundIDCalls    []GetRoundIDCall
	GetAttendanceCalls []GetAttendanceCall
	MarkAttendedCalls  []MarkAttendedCall
}

// Call tracking structs
type GetRoundIDCall struct {
	LegacyID int64
}

type GetAttendanceCall struct {
	RoundID int64
}

type MarkAttendedCall struct {
	RoundID int64
	CoderID int64
}

// NewMockLegacyStore creates a new mock legacy store.
func NewMockLegacyStore() *MockLegacyStore {
	return &MockLegacyStore{}
}

// GetRoundID implements LegacyStore.
func (m *MockLegacyStore) GetRoundID(ctx context.Context, legacyID int64) (int64, error) {
	m.mu.Lock()
	m.GetRoundIDCalls = append(m.GetRoundIDCalls, GetRoundIDCall{LegacyID: legacyID})
	fn := m.GetRoundIDFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, legacyID)
	}
	return 0, processor.ErrRoundNotFound
}

// GetAttendance implements LegacyStore.
func (m *MockLegacyStore) GetAttendance(ctx context.Context, roundID int64) ([]processor.AttendanceRecord, error) {
	m.mu.Lock()
	m.GetAttendanceCalls = append(m.GetAttendanceCalls, GetAttendanceCall{RoundID: roundID})
	fn := m.GetAttendanceFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID)
	}
	return nil, nil
}

// MarkAttended implements LegacyStore.
func (m *MockLegacyStore) MarkAttended(ctx context.Context, roundID, coderID int64) error {
	m.mu.Lock()
	m.MarkAttendedCalls = append(m.MarkAttendedCalls, MarkAttendedCall{RoundID: roundID, CoderID: coderID})
	fn := m.MarkAttendedFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, roundID, coderID)
	}
	return nil
}

// Reset clears all recorded calls.
func (m *MockLegacyStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetRoundIDCalls = nil
	m.GetAttendanceCalls = nil
	m.MarkAttendedCalls = nil
}
