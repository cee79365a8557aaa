// Package memory provides an in-memory legacy store for tests and local
// development.
package memory

import (
	"context"
	"sync"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// Store is an in-memory implementation of store.LegacyStore. It provides
// thread-safe access to round and attendance data using a sync.RWMutex.
type Store struct {
	mu         sync.RWMutex
	rounds     map[int64]int64            // legacyID -> roundID
	attendance map[int64]map[int64]string // roundID -> coderID -> flag
}

// New creates a new in-memory store with initialized maps.
func New() *Store {
	return &Store{
		rounds:     make(map[int64]int64),
		attendance: make(map[int64]map[int64]string),
	}
}

// SeedRound registers a legacy project to round mapping.
func (s *Store) SeedRound(legacyID, roundID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds[legacyID] = roundID
}

// SeedAttendance registers attendance records.
func (s *Store) SeedAttendance(records ...processor.AttendanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		byCoder, ok := s.attendance[rec.RoundID]
		if !ok {
			byCoder = make(map[int64]string)
			s.attendance[rec.RoundID] = byCoder
		}
		byCoder[rec.CoderID] = rec.Attended
	}
}

// GetRoundID resolves the round for the given legacy project identifier.
// Returns processor.ErrRoundNotFound if no round exists.
func (s *Store) GetRoundID(ctx context.Context, legacyID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roundID, ok := s.rounds[legacyID]
	if !ok {
		return 0, processor.ErrRoundNotFound
	}

	return roundID, nil
}

// GetAttendance returns all attendance records for a round.
// Returns an empty slice if the round has no records.
func (s *Store) GetAttendance(ctx context.Context, roundID int64) ([]processor.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []processor.AttendanceRecord
	for coderID, flag := range s.attendance[roundID] {
		records = append(records, processor.AttendanceRecord{
			RoundID:  roundID,
			CoderID:  coderID,
			Attended: flag,
		})
	}

	return records, nil
}

// MarkAttended flips the attendance flag to "Y" for a (round, coder) pair.
// Returns processor.ErrAttendanceNotFound if no row with the flag still "N"
// exists.
func (s *Store) MarkAttended(ctx context.Context, roundID, coderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCoder, ok := s.attendance[roundID]
	if !ok {
		return processor.ErrAttendanceNotFound
	}

	flag, ok := byCoder[coderID]
	if !ok || flag != processor.AttendedNo {
		return processor.ErrAttendanceNotFound
	}

	byCoder[coderID] = processor.AttendedYes
	return nil
}
