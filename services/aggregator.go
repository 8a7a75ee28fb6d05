package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/koreasuan/rainmaker-api/models"
)

// Grouping units for the monthly amount label: 억 (100 million KRW) and
// 천만 (10 million KRW).
const (
	unitEok      = 100_000_000
	unitCheonman = 10_000_000
)

// ComputeKPIs produces the dashboard summary for a reference day.
// todayCount counts announcements posted on the reference calendar day,
// highPriority counts S/A grades, and the month amount sums the reference
// month's quotes using sum-mode amount coercion (bad cells contribute 0).
func ComputeKPIs(announcements, monthlyQuotes []models.CanonicalRecord, ref time.Time) models.DashboardSummary {
	today := ref.Format("2006-01-02")
	month := ref.Format("2006-01")

	summary := models.DashboardSummary{Total: len(announcements)}
	for _, rec := range announcements {
		if rec.Date == today {
			summary.TodayCount++
		}
	}
	summary.HighPriority = CountHighPriority(announcements)
	summary.AwaitingAction = CountAwaitingAction(announcements)

	var total float64
	for _, rec := range monthlyQuotes {
		if !strings.HasPrefix(rec.Date, month) {
			continue
		}
		total += CoerceAmountForSum(rec.RawAmount)
	}
	summary.MonthAmount = int64(math.Floor(total))
	summary.MonthAmountLabel = MonthAmountLabel(summary.MonthAmount)
	return summary
}

// MonthAmountLabel renders an amount as the dashboard's two-tier 억/천만
// label. The reduction is lossy: anything below 천만 is dropped outright, not
// rounded, so 1억 2천 9백만 still reads "1억 2천만". Both components zero reads
// as the literal "0".
func MonthAmountLabel(amount int64) string {
	eok := amount / unitEok
	cheonman := (amount % unitEok) / unitCheonman

	parts := make([]string, 0, 2)
	if eok > 0 {
		parts = append(parts, fmt.Sprintf("%d억", eok))
	}
	if cheonman > 0 {
		parts = append(parts, fmt.Sprintf("%d천만", cheonman))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " ")
}
