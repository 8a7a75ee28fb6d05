package models

// MutationKind selects the write operation the external sheet script performs.
type MutationKind string

const (
	MutationSalesLog         MutationKind = "SALES_LOG"
	MutationUpdateStatus     MutationKind = "UPDATE_STATUS"
	MutationAssignBid        MutationKind = "ASSIGN_BID"
	MutationGetUserRole      MutationKind = "GET_USER_ROLE"
	MutationGenerateDocument MutationKind = "GENERATE_DOCUMENT"
)

// MutationResult is the sheet endpoint's answer to a write round trip. Failures
// are carried here as data, not raised: the workflow reports them to the caller
// so the UI can notify the user, and never retries on its own.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// StatusUpdatePayload carries the natural key of a report row plus the new
// status and manager feedback. The sheet matches rows on date+content+manager.
type StatusUpdatePayload struct {
	Date     string `json:"date"`
	Content  string `json:"content"`
	Manager  string `json:"manager"`
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// AssignPayload registers a user as an announcement's sales assignee.
type AssignPayload struct {
	BidID     string `json:"bidId"`
	BidNtceNo string `json:"bidNtceNo"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// ActivityLogPayload is one sales activity report appended to the log sheet.
type ActivityLogPayload struct {
	Date        string `json:"date"`
	Content     string `json:"content"`
	MainWork    string `json:"mainWork"`
	Manager     string `json:"manager"`
	Category    string `json:"category"`
	Orderer     string `json:"orderer"`
	ProjectName string `json:"projectName"`
	BidID       string `json:"bidId,omitempty"`
	BidNtceNo   string `json:"bidNtceNo,omitempty"`
}
