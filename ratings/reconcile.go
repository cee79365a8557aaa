// Package ratings reconciles challenge submissions against legacy attendance
// rows and drives the rating pipeline endpoints for a round.
package ratings

import (
	"sort"

	processor "github.com/topcoder-platform/member-profile-processor"
)

// FinalSubmissions reduces a raw submission listing to at most one submission
// per member: the member's latest submission by creation time, kept only when
// it carries a review summation. The result is ordered by member id so that
// downstream attendance updates are deterministic.
func FinalSubmissions(submissions []processor.Submission) []processor.Submission {
	latest := make(map[int64]processor.Submission, len(submissions))
	for _, sub := range submissions {
		current, ok := latest[sub.MemberID]
		if !ok || sub.Created.After(current.Created) {
			latest[sub.MemberID] = sub
		}
	}

	final := make([]processor.Submission, 0, len(latest))
	for _, sub := range latest {
		if sub.Reviewed() {
			final = append(final, sub)
		}
	}

	sort.Slice(final, func(i, j int) bool {
		return final[i].MemberID < final[j].MemberID
	})

	return final
}
