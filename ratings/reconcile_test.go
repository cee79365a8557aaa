package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	processor "github.com/topcoder-platform/member-profile-processor"
)

func reviewed(score float64) *processor.ReviewSummation {
	return &processor.ReviewSummation{AggregateScore: score, IsPassing: true}
}

func TestFinalSubmissions_LatestPerMember(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subs := []processor.Submission{
		{MemberID: 111, Created: base, ReviewSummation: reviewed(80)},
		{MemberID: 111, Created: base.Add(time.Hour), ReviewSummation: reviewed(95)},
		{MemberID: 222, Created: base, ReviewSummation: reviewed(70)},
	}

	final := FinalSubmissions(subs)
	require.Len(t, final, 2)
	assert.Equal(t, int64(111), final[0].MemberID)
	assert.Equal(t, float64(95), final[0].ReviewSummation.AggregateScore)
	assert.Equal(t, int64(222), final[1].MemberID)
}

func TestFinalSubmissions_UnreviewedLatestDropsMember(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subs := []processor.Submission{
		// The earlier submission was reviewed, but the latest one was not:
		// the member drops out entirely.
		{MemberID: 111, Created: base, ReviewSummation: reviewed(80)},
		{MemberID: 111, Created: base.Add(time.Hour)},
		{MemberID: 222, Created: base, ReviewSummation: reviewed(70)},
	}

	final := FinalSubmissions(subs)
	require.Len(t, final, 1)
	assert.Equal(t, int64(222), final[0].MemberID)
}

func TestFinalSubmissions_DeterministicOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subs := []processor.Submission{
		{MemberID: 333, Created: base, ReviewSummation: reviewed(60)},
		{MemberID: 111, Created: base, ReviewSummation: reviewed(80)},
		{MemberID: 222, Created: base, ReviewSummation: reviewed(70)},
	}

	final := FinalSubmissions(subs)
	require.Len(t, final, 3)
	assert.Equal(t, int64(111), final[0].MemberID)
	assert.Equal(t, int64(222), final[1].MemberID)
	assert.Equal(t, int64(333), final[2].MemberID)
}

func TestFinalSubmissions_Empty(t *testing.T) {
	assert.Empty(t, FinalSubmissions(nil))
	assert.Empty(t, FinalSubmissions([]processor.Submission{}))
}
