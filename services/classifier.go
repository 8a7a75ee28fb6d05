package services

import (
	"strings"

	"github.com/koreasuan/rainmaker-api/models"
)

// Classification is the derived bucket for one record.
type Classification struct {
	Tier         models.RatingTier `json:"tier"`
	HighPriority bool              `json:"high_priority"`
}

// Classify derives the rating bucket. High priority means an S or A grade;
// everything else, including already-graded B/C rows, still counts as awaiting
// sales action on the dashboard.
func Classify(rec models.CanonicalRecord) Classification {
	return Classification{
		Tier:         rec.RatingTier,
		HighPriority: rec.HighPriority(),
	}
}

// CountHighPriority counts S/A records.
func CountHighPriority(records []models.CanonicalRecord) int {
	n := 0
	for _, rec := range records {
		if Classify(rec).HighPriority {
			n++
		}
	}
	return n
}

// CountAwaitingAction counts everything that is NOT S/A. Unrated, B and C rows
// are folded together; the KPI means "no opportunity flagged yet", not "no
// grade yet".
func CountAwaitingAction(records []models.CanonicalRecord) int {
	n := 0
	for _, rec := range records {
		if rec.AwaitingAction() {
			n++
		}
	}
	return n
}

// FilterAll bypasses a filter dimension.
const FilterAll = "ALL"

// FilterOptions is the compound announcement filter. All set dimensions must
// match (logical AND).
type FilterOptions struct {
	Text       string
	RatingTier string
	Region     string
}

// Filter applies the compound filter:
//   - Text matches case-insensitively against title or counterparty.
//   - RatingTier, unless ALL, must equal the trimmed raw grade exactly; a
//     lowercase "s" in the sheet does not match an "S" filter.
//   - Region, unless ALL, must equal the stored region exactly, with no case
//     or whitespace normalization.
func Filter(records []models.CanonicalRecord, opts FilterOptions) []models.CanonicalRecord {
	text := strings.ToLower(strings.TrimSpace(opts.Text))

	out := make([]models.CanonicalRecord, 0, len(records))
	for _, rec := range records {
		if text != "" {
			title := strings.ToLower(rec.Title)
			counterparty := strings.ToLower(rec.Counterparty)
			if !strings.Contains(title, text) && !strings.Contains(counterparty, text) {
				continue
			}
		}
		if opts.RatingTier != "" && opts.RatingTier != FilterAll {
			if strings.TrimSpace(rec.RawRating) != opts.RatingTier {
				continue
			}
		}
		if opts.Region != "" && opts.Region != FilterAll {
			if rec.Region != opts.Region {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}
