package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/koreasuan/rainmaker-api/models"
)

// Field names the canonical columns every dataset is projected onto. The sheet
// tabs overlap only partially, so resolution goes through per-dataset alias
// lists instead of one struct per tab.
type Field string

const (
	FieldID            Field = "id"
	FieldTitle         Field = "title"
	FieldCounterparty  Field = "counterparty"
	FieldDate          Field = "date"
	FieldAmount        Field = "amount"
	FieldRating        Field = "rating"
	FieldRatingReason  Field = "rating_reason"
	FieldRegion        Field = "region"
	FieldLink          Field = "link"
	FieldStatus        Field = "status"
	FieldFeedback      Field = "feedback"
	FieldAssignee      Field = "assignee"
	FieldAssigneeMail  Field = "assignee_email"
	FieldDay           Field = "day"
	FieldCollaboration Field = "collaboration"
	FieldOutside       Field = "outside"
)

// AliasTable maps each canonical field to the column names accepted for it, in
// priority order. Korean and English headers coexist in the live sheets.
type AliasTable map[Field][]string

// Display placeholders and markers used when coercing values for rendering.
const (
	CheckMark   = "✓"
	Placeholder = "—"
)

// Normalizer turns raw sheet rows into canonical records. It is stateless:
// every fetch re-runs the projection from scratch.
type Normalizer struct {
	tables map[string]AliasTable
}

// NewNormalizer builds a normalizer with the built-in alias tables, optionally
// overridden per dataset (overrides replace the whole field entry, not merge).
func NewNormalizer(overrides map[string]AliasTable) *Normalizer {
	tables := DefaultAliases()
	for dataset, table := range overrides {
		base, ok := tables[dataset]
		if !ok {
			base = AliasTable{}
			tables[dataset] = base
		}
		for field, aliases := range table {
			base[field] = aliases
		}
	}
	return &Normalizer{tables: tables}
}

// DefaultAliases returns the alias tables for the known sheet tabs.
func DefaultAliases() map[string]AliasTable {
	return map[string]AliasTable{
		DatasetAnnouncements: {
			FieldID:           {"bidNtceNo", "공고번호"},
			FieldTitle:        {"bidNtceNm", "project", "공고명", "과업명"},
			FieldCounterparty: {"procMethod", "dman", "발주처", "수요기관"},
			FieldDate:         {"bidNtceDt", "date", "공고일", "일자"},
			FieldAmount:       {"amount", "금액", "추정가격"},
			FieldRating:       {"AI_Rating", "rating", "등급"},
			FieldRatingReason: {"AI_Reason", "reason", "분석사유"},
			FieldRegion:       {"region", "지역"},
			FieldLink:         {"link", "url", "원문링크"},
			FieldStatus:       {"status", "결재상태", "진행상태"},
			FieldFeedback:     {"feedback", "피드백"},
			FieldAssignee:     {"assignee", "담당자"},
			FieldAssigneeMail: {"assignee_email", "담당자이메일"},
		},
		DatasetWeeklyReport: {
			FieldDate:          {"date", "일자", "날짜"},
			FieldDay:           {"day", "요일"},
			FieldAssignee:      {"manager", "담당자", "작성자"},
			FieldTitle:         {"content", "업무내용", "주요업무"},
			FieldCollaboration: {"collaboration", "협업"},
			FieldOutside:       {"outside", "외근"},
			FieldStatus:        {"status", "결재상태"},
			FieldFeedback:      {"feedback", "피드백"},
		},
		DatasetMonthlyQuote: {
			FieldDate:         {"date", "견적일", "일자"},
			FieldTitle:        {"project", "projectName", "건명", "과업명"},
			FieldCounterparty: {"client", "orderer", "고객사", "발주처"},
			FieldAmount:       {"amount", "견적금액", "금액"},
			FieldRegion:       {"region", "지역"},
			FieldStatus:       {"status", "진행상태"},
			FieldAssignee:     {"manager", "담당자"},
			FieldFeedback:     {"feedback", "피드백"},
		},
		DatasetExpectedTasks: {
			FieldDate:         {"date", "예정일", "일자"},
			FieldTitle:        {"project", "content", "과업명", "건명"},
			FieldCounterparty: {"orderer", "발주처", "수요기관"},
			FieldAmount:       {"amount", "예상금액", "금액"},
			FieldRegion:       {"region", "지역"},
			FieldStatus:       {"status", "진행상태"},
			FieldAssignee:     {"manager", "담당자"},
			FieldFeedback:     {"feedback", "피드백"},
		},
		DatasetGeneralReport: {
			FieldDate:         {"date", "일자"},
			FieldTitle:        {"content", "title", "내용", "업무내용"},
			FieldCounterparty: {"orderer", "client", "발주처"},
			FieldAmount:       {"amount", "금액"},
			FieldStatus:       {"status", "결재상태", "진행상태"},
			FieldAssignee:     {"manager", "담당자"},
			FieldFeedback:     {"feedback", "피드백"},
		},
	}
}

// Resolve tries each alias in order and returns the first present, non-empty
// value as text. Absent keys, nulls and blank strings are skipped rather than
// resolved, so a blank English column never shadows a filled Korean one.
func Resolve(rec models.RawRecord, aliases []string) (string, bool) {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		s, ok := stringify(v)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		return s, true
	}
	return "", false
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// Normalize projects one raw row of the given dataset onto a CanonicalRecord.
// Every coercion is total: a value that cannot be read falls back to a
// displayable default instead of failing the row.
func (n *Normalizer) Normalize(dataset string, rec models.RawRecord) models.CanonicalRecord {
	table, ok := n.tables[dataset]
	if !ok {
		table = n.tables[DatasetGeneralReport]
	}

	get := func(f Field) string {
		s, _ := Resolve(rec, table[f])
		return s
	}

	out := models.CanonicalRecord{
		ID:           strings.TrimSpace(get(FieldID)),
		Title:        strings.TrimSpace(get(FieldTitle)),
		Counterparty: strings.TrimSpace(get(FieldCounterparty)),
		Date:         CoerceDate(get(FieldDate)),
		RatingReason: strings.TrimSpace(get(FieldRatingReason)),
		// Untrimmed: the region filter compares exact strings.
		Region:       get(FieldRegion),
		Link:         strings.TrimSpace(get(FieldLink)),
		Status:       CoerceStatus(get(FieldStatus)),
		Feedback:     strings.TrimSpace(get(FieldFeedback)),
		Assignee:     strings.TrimSpace(get(FieldAssignee)),
		AssigneeMail: strings.TrimSpace(get(FieldAssigneeMail)),
	}

	out.RatingTier, out.RawRating = CoerceRating(get(FieldRating))
	out.RawAmount = get(FieldAmount)
	out.Amount, out.AmountLabel = CoerceAmountForDisplay(out.RawAmount)

	display := map[string]string{}
	if day := strings.TrimSpace(get(FieldDay)); day != "" {
		display["day"] = day
	}
	if len(table[FieldCollaboration]) > 0 {
		display["collaboration"] = CoerceFlag(get(FieldCollaboration))
	}
	if len(table[FieldOutside]) > 0 {
		display["outside"] = CoerceFlag(get(FieldOutside))
	}
	if len(display) > 0 {
		out.Display = display
	}
	return out
}

// NormalizeAll projects a whole fetched dataset, newest rows first (the sheets
// append at the bottom, the UI shows latest on top).
func (n *Normalizer) NormalizeAll(dataset string, rows []models.RawRecord) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, n.Normalize(dataset, rows[i]))
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CoerceDate reads a raw date cell into YYYY-MM-DD or the empty sentinel.
// Direct calendar layouts are tried first; failing that, all non-digit
// characters are stripped and the remainder is read as YYYYMMDD (8+ digits) or
// YYYYMM with the day forced to 01 (6-7 digits). Anything shorter is empty.
// Interpretation is local-calendar only, no timezone shifting.
func CoerceDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) >= 8:
		if t, err := time.Parse("20060102", d[:8]); err == nil {
			return t.Format("2006-01-02")
		}
	case len(d) >= 6:
		if t, err := time.Parse("20060102", d[:6]+"01"); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// parseAmount strips everything except digits, '.' and '-' and parses the
// remainder. This is the shared cleaner under both amount code paths.
func parseAmount(raw string) (float64, bool) {
	var cleaned strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			cleaned.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(cleaned.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceAmountForSum reads an amount cell for aggregation. An unparsable value
// contributes 0 to the sum so a single bad cell never poisons a monthly total.
func CoerceAmountForSum(raw string) float64 {
	v, ok := parseAmount(raw)
	if !ok {
		return 0
	}
	return v
}

// CoerceAmountForDisplay reads an amount cell for rendering. A parsable value
// yields the number plus its comma-grouped label; an unparsable one keeps the
// original trimmed text as the label with no numeric value, so the user still
// sees whatever the sheet holds. This path is intentionally separate from
// CoerceAmountForSum: the fallbacks differ and must stay distinct.
func CoerceAmountForDisplay(raw string) (*float64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ""
	}
	v, ok := parseAmount(trimmed)
	if !ok {
		return nil, trimmed
	}
	return &v, groupDigits(v)
}

func groupDigits(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + fracPart
}

// affirmativeFlags is the closed set of values the sheets use to mean "yes".
var affirmativeFlags = map[string]bool{
	"o": true, "완료": true, "완": true, "y": true, "yes": true,
	"true": true, "1": true, "√": true, "v": true,
}

// CoerceFlag reads a yes/no-ish cell for display: affirmative values become a
// check mark, blanks a placeholder dash, anything else passes through trimmed.
func CoerceFlag(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Placeholder
	}
	if affirmativeFlags[strings.ToLower(s)] {
		return CheckMark
	}
	return s
}

// CoerceRating keeps the trimmed grade verbatim and derives the tier only for
// an exact, case-sensitive single-letter S/A/B/C match. "s", "A급" and friends
// keep their raw text but stay in the pending tier.
func CoerceRating(raw string) (models.RatingTier, string) {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return models.TierPending, ""
	case "S":
		return models.TierS, s
	case "A":
		return models.TierA, s
	case "B":
		return models.TierB, s
	case "C":
		return models.TierC, s
	default:
		return models.TierPending, s
	}
}

// CoerceStatus maps the sheet's approval labels (Korean or English) onto the
// closed status set. Anything unrecognized is still pending.
func CoerceStatus(raw string) models.Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "승인", "APPROVED":
		return models.StatusApproved
	case "반려", "REJECTED":
		return models.StatusRejected
	default:
		return models.StatusPending
	}
}

// StatusSheetLabel is the label the sheet script stores for a status. The
// Users-facing sheets keep Korean labels; the API speaks the enum.
func StatusSheetLabel(s models.Status) string {
	switch s {
	case models.StatusApproved:
		return "승인"
	case models.StatusRejected:
		return "반려"
	default:
		return "대기"
	}
}
