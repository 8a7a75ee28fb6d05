package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koreasuan/rainmaker-api/models"
)

func recordsWithRatings(ratings ...string) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0, len(ratings))
	for _, r := range ratings {
		tier, raw := CoerceRating(r)
		out = append(out, models.CanonicalRecord{RatingTier: tier, RawRating: raw})
	}
	return out
}

func TestClassifyHighPriority(t *testing.T) {
	for rating, want := range map[string]bool{
		"S": true, "A": true, "B": false, "C": false, "": false, "s": false, "a": false,
	} {
		recs := recordsWithRatings(rating)
		got := Classify(recs[0])
		assert.Equal(t, want, got.HighPriority, "rating %q", rating)
	}
}

func TestCountHighPriority(t *testing.T) {
	recs := recordsWithRatings("S", "A", "B", "C", "", "a", "S", "A", "B", "")
	assert.Equal(t, 4, CountHighPriority(recs))
}

func TestCountAwaitingActionFoldsRatedAndUnrated(t *testing.T) {
	// B and C are graded but still count as awaiting action: the KPI means
	// "no S/A opportunity yet", not "no grade yet".
	recs := recordsWithRatings("S", "A", "B", "C", "", "a")
	assert.Equal(t, 4, CountAwaitingAction(recs))
}

func filterFixture() []models.CanonicalRecord {
	return []models.CanonicalRecord{
		{Title: "Dam rehabilitation phase 2", Counterparty: "K-water", RawRating: "S", Region: "대전"},
		{Title: "정수장 개량", Counterparty: "Daedeok-gu Damsu Office", RawRating: "B", Region: "대전"},
		{Title: "하수관로 정비", Counterparty: "세종시", RawRating: "s", Region: "세종"},
		{Title: "수도 계량기 교체", Counterparty: "대전시", RawRating: "", Region: "대전 "},
	}
}

func TestFilterTextMatchesTitleOrCounterparty(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{Text: "dam", RatingTier: FilterAll, Region: FilterAll})
	require.Len(t, got, 2)
	assert.Equal(t, "Dam rehabilitation phase 2", got[0].Title)
	assert.Equal(t, "정수장 개량", got[1].Title)
}

func TestFilterTierMatchesRawRatingExactly(t *testing.T) {
	// The tier filter compares the trimmed raw grade, not the derived tier:
	// a lowercase "s" row does not match an "S" filter.
	got := Filter(filterFixture(), FilterOptions{RatingTier: "S"})
	require.Len(t, got, 1)
	assert.Equal(t, "Dam rehabilitation phase 2", got[0].Title)

	got = Filter(filterFixture(), FilterOptions{RatingTier: "s"})
	require.Len(t, got, 1)
	assert.Equal(t, "하수관로 정비", got[0].Title)
}

func TestFilterRegionExactNoNormalization(t *testing.T) {
	// "대전 " (trailing space) silently misses the "대전" filter.
	got := Filter(filterFixture(), FilterOptions{Region: "대전"})
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, "대전", rec.Region)
	}
}

func TestFilterAllBypasses(t *testing.T) {
	fixture := filterFixture()
	assert.Len(t, Filter(fixture, FilterOptions{}), len(fixture))
	assert.Len(t, Filter(fixture, FilterOptions{Text: "", RatingTier: FilterAll, Region: FilterAll}), len(fixture))
}

func TestFilterCombinesWithAND(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{Text: "수", RatingTier: "", Region: "세종"})
	require.Len(t, got, 1)
	assert.Equal(t, "하수관로 정비", got[0].Title)
}
