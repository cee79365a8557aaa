// Package store defines the gateway to the legacy relational store that holds
// round and attendance data for marathon matches.
package store

import (
	"context"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// LegacyStore provides access to the legacy round and attendance tables.
// Implementations own no cross-call state: each call executes one unit of
// work against the underlying connection pool and releases its resources on
// every exit path. Implementations must be safe for concurrent use.
type LegacyStore interface {
	// GetRoundID resolves the round for the given legacy project identifier.
	// Returns processor.ErrRoundNotFound if no round exists.
	GetRoundID(ctx context.Context, legacyID int64) (int64, error)

	// GetAttendance returns all attendance records for a round.
	// Returns an empty slice if the round has no records.
	GetAttendance(ctx context.Context, roundID int64) ([]processor.AttendanceRecord, error)

	// MarkAttended sets the attendance flag to "Y" for a (round, coder) pair.
	// Returns processor.ErrAttendanceNotFound if no row with the flag still
	// "N" exists; the row is never created.
	MarkAttended(ctx context.Context, roundID, coderID int64) error
}
