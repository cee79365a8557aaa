package processor

import "errors"

var (
	// ErrChallengeNotFound indicates the challenge-service API returned no
	// challenge for the requested legacy identifier.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrRoundNotFound indicates the legacy store has no round for the
	// requested legacy project identifier.
	ErrRoundNotFound = errors.New("round not found")

	// ErrAttendanceNotFound indicates no attendance row exists for a
	// (round, coder) pair. Reconciliation treats this as a skip, not a failure.
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
