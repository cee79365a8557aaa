// Package postgres implements the legacy store gateway for PostgreSQL using
// "$n" placeholders.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// Store is a PostgreSQL implementation of store.LegacyStore. Each call runs
// one statement against the pooled database handle; no connection is held
// across calls.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetRoundID resolves the round for the given legacy project identifier by
// joining the round and contest tables. When a contest has multiple rounds,
// the most recent one wins.
// Returns processor.ErrRoundNotFound if no round exists.
func (s *Store) GetRoundID(ctx context.Context, legacyID int64) (int64, error) {
	query := `
		SELECT r.round_id
		FROM round r, contest c
		WHERE c.project_id = $1 AND c.contest_id = r.contest_id
		ORDER BY r.round_id DESC
		LIMIT 1
	`

	var roundID int64
	err := s.db.QueryRowContext(ctx, query, legacyID).Scan(&roundID)
	if err == sql.ErrNoRows {
		return 0, processor.ErrRoundNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve round for legacy id %d: %w", legacyID, err)
	}

	return roundID, nil
}

// GetAttendance returns all long_comp_result rows for a round.
// Returns an empty slice if the round has no rows.
func (s *Store) GetAttendance(ctx context.Context, roundID int64) ([]processor.AttendanceRecord, error) {
	query := `
		SELECT round_id, coder_id, attended
		FROM long_comp_result
		WHERE round_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var records []processor.AttendanceRecord
	for rows.Next() {
		var rec processor.AttendanceRecord
		if err := rows.Scan(&rec.RoundID, &rec.CoderID, &rec.Attended); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance records: %w", err)
	}

	return records, nil
}

// MarkAttended flips the attendance flag to "Y" for a (round, coder) pair.
// Returns processor.ErrAttendanceNotFound if no row with the flag still "N"
// exists; rows are never created.
func (s *Store) MarkAttended(ctx context.Context, roundID, coderID int64) error {
	query := `
		UPDATE long_comp_result
		SET attended = $1
		WHERE round_id = $2 AND coder_id = $3 AND attended = $4
	`

	result, err := s.db.ExecContext(ctx, query, processor.AttendedYes, roundID, coderID, processor.AttendedNo)
	if err != nil {
		return fmt.Errorf("failed to mark attendance for round %d coder %d: %w", roundID, coderID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return processor.ErrAttendanceNotFound
	}

	return nil
}
