package models

// Status is the approval state of a workflow row. It starts at Pending and is
// only ever reassigned by the status workflow, never by normalization.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// RatingTier is the classification bucket derived from the sheet's single-letter
// AI grade column. Anything that is not exactly S, A, B or C stays Pending.
type RatingTier string

const (
	TierPending RatingTier = "PENDING"
	TierS       RatingTier = "S"
	TierA       RatingTier = "A"
	TierB       RatingTier = "B"
	TierC       RatingTier = "C"
)

// RawRecord is one row as the external sheet endpoint returns it: an
// unconstrained JSON object whose keys vary per dataset and mix Korean and
// English synonyms for the same logical column. Values are whatever
// encoding/json produced: string, float64, bool or nil.
type RawRecord map[string]any

// CanonicalRecord is the normalized projection of a RawRecord. It is stateless
// and recomputed on every fetch; the external sheet stays authoritative.
type CanonicalRecord struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	Counterparty string `json:"counterparty"`
	// Date is either a well-formed YYYY-MM-DD string or "" when the raw
	// value could not be read as a calendar date.
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount"`
	AmountLabel string   `json:"amount_label,omitempty"`
	// RawAmount is the untouched amount cell. Aggregation re-coerces it in
	// sum mode (unparsable -> 0), which differs from the display coercion
	// that produced Amount/AmountLabel.
	RawAmount    string     `json:"-"`
	RatingTier   RatingTier `json:"rating_tier"`
	RawRating    string     `json:"raw_rating"`
	RatingReason string     `json:"rating_reason,omitempty"`
	Region       string     `json:"region,omitempty"`
	Link         string     `json:"link,omitempty"`
	Status       Status     `json:"status"`
	Feedback     string     `json:"feedback"`
	Assignee     string     `json:"assignee,omitempty"`
	AssigneeMail string     `json:"assignee_email,omitempty"`
	// Display carries dataset-specific leftover columns already coerced for
	// rendering (weekday, collaboration/outing check marks, ...).
	Display map[string]string `json:"display,omitempty"`
}

// HighPriority reports whether the record sits in the S/A opportunity band.
func (r CanonicalRecord) HighPriority() bool {
	return r.RatingTier == TierS || r.RatingTier == TierA
}

// AwaitingAction reports whether the record still needs sales attention for the
// dashboard's pending KPI. B and C grades are folded in together with unrated
// rows: only S/A opportunities count as flagged.
func (r CanonicalRecord) AwaitingAction() bool {
	return !r.HighPriority()
}
