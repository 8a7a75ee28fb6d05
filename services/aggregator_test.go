package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/koreasuan/rainmaker-api/models"
)

func TestMonthAmountLabel(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{125000000, "1억 2천만"},
		{50000000, "5천만"},
		{100000000, "1억"},
		{0, "0"},
		// The reduction is lossy: everything under 천만 is dropped, not
		// rounded up.
		{129999999, "1억 2천만"},
		{9999999, "0"},
		{1234567890, "12억 3천만"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MonthAmountLabel(tc.amount), "amount %d", tc.amount)
	}
}

func TestComputeKPIs(t *testing.T) {
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)

	announcements := []models.CanonicalRecord{
		{Date: "2025-01-15", RatingTier: models.TierS},
		{Date: "2025-01-15", RatingTier: models.TierB},
		{Date: "2025-01-14", RatingTier: models.TierA},
		{Date: "", RatingTier: models.TierPending},
	}
	quotes := []models.CanonicalRecord{
		{Date: "2025-01-03", RawAmount: "100,000,000원"},
		{Date: "2025-01-20", RawAmount: "25,000,000"},
		{Date: "2024-12-31", RawAmount: "999,999,999"}, // previous month, excluded
		{Date: "2025-01-10", RawAmount: "협의"},          // sum-mode: contributes 0
		{Date: "", RawAmount: "50,000,000"},            // undated, excluded
	}

	got := ComputeKPIs(announcements, quotes, ref)

	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.TodayCount)
	assert.Equal(t, 2, got.HighPriority)
	assert.Equal(t, 2, got.AwaitingAction)
	assert.Equal(t, int64(125000000), got.MonthAmount)
	assert.Equal(t, "1억 2천만", got.MonthAmountLabel)
}

func TestComputeKPIsEmptyInputs(t *testing.T) {
	got := ComputeKPIs(nil, nil, time.Now())
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0, got.TodayCount)
	assert.Equal(t, int64(0), got.MonthAmount)
	assert.Equal(t, "0", got.MonthAmountLabel)
}
