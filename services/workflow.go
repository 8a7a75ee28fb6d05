package services

import (
	"context"
	"fmt"
	"log"

	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/utils"
)

// Mutator is the write side of the sheet adapter.
type Mutator interface {
	SubmitMutation(ctx context.Context, kind models.MutationKind, payload any) (models.MutationResult, error)
}

// StatusWorkflow runs the approval state machine and the other write paths
// against the external store. It performs no authorization itself: the caller
// has already verified the actor's role and passes the actor in explicitly,
// and the sheet script enforces whatever it wants server-side.
type StatusWorkflow struct {
	sheets    Mutator
	snapshots *SnapshotService
	audit     *AuditLog
	notifier  *Notifier
}

func NewStatusWorkflow(sheets Mutator, snapshots *SnapshotService, audit *AuditLog, notifier *Notifier) *StatusWorkflow {
	return &StatusWorkflow{sheets: sheets, snapshots: snapshots, audit: audit, notifier: notifier}
}

// TransitionOutcome reports a status transition attempt plus the reloaded
// dataset the caller should now display.
type TransitionOutcome struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Records []models.CanonicalRecord `json:"records"`
}

// allowedTransition encodes the state machine. Self-transitions are legal so a
// manager can re-submit the current status with fresh feedback; finalized
// states can flip into each other; nothing moves back to pending.
func allowedTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	switch from {
	case models.StatusPending:
		return to == models.StatusApproved || to == models.StatusRejected
	case models.StatusApproved:
		return to == models.StatusRejected
	case models.StatusRejected:
		return to == models.StatusApproved
	}
	return false
}

// RequestTransition submits a status change for one report row and reconciles
// by reloading the whole dataset; there is no optimistic merge. The reload
// happens even when the mutation fails, so the displayed state falls back to
// whatever the authoritative sheet holds; the failure is reported to the
// caller instead of retried.
func (w *StatusWorkflow) RequestTransition(ctx context.Context, actor models.User, dataset string, rec models.CanonicalRecord, newStatus models.Status, feedback string) TransitionOutcome {
	if !allowedTransition(rec.Status, newStatus) {
		return TransitionOutcome{
			Success: false,
			Message: fmt.Sprintf("transition %s → %s is not allowed", rec.Status, newStatus),
			Records: w.snapshots.Cached(dataset),
		}
	}

	payload := models.StatusUpdatePayload{
		Date:     rec.Date,
		Content:  rec.Title,
		Manager:  rec.Assignee,
		Status:   StatusSheetLabel(newStatus),
		Feedback: feedback,
	}

	result, err := w.sheets.SubmitMutation(ctx, models.MutationUpdateStatus, payload)
	success := err == nil && result.Success
	message := result.Message
	if err != nil {
		log.Printf("❌ Status update failed for %s: %v", utils.MaskString(rec.Title), err)
		message = "상태 변경 전송에 실패했습니다."
	} else if !result.Success {
		log.Printf("⚠️ Status update rejected by sheet: %s", result.Message)
	}

	w.recordAudit(models.MutationUpdateStatus, actor, payload.Content, string(newStatus), success, message)

	// Reload regardless of outcome: read-after-write via full refetch.
	records, loadErr := w.snapshots.Load(ctx, dataset)
	if loadErr != nil {
		records = w.snapshots.Cached(dataset)
	}

	if w.notifier != nil {
		w.notifier.StatusChanged(actor, rec, newStatus, success)
	}

	return TransitionOutcome{Success: success, Message: message, Records: records}
}

// RequestAssign registers the actor as an announcement's sales assignee.
// Approval stays with the sheet's admins; this only files the request.
func (w *StatusWorkflow) RequestAssign(ctx context.Context, actor models.User, bidID string, rec models.CanonicalRecord) (models.MutationResult, error) {
	payload := models.AssignPayload{
		BidID:     bidID,
		BidNtceNo: rec.ID,
		UserName:  actor.Name,
		UserEmail: actor.Email,
	}
	result, err := w.sheets.SubmitMutation(ctx, models.MutationAssignBid, payload)
	success := err == nil && result.Success
	w.recordAudit(models.MutationAssignBid, actor, rec.ID, "", success, result.Message)
	if err != nil {
		return models.MutationResult{}, err
	}
	return result, nil
}

// CreateActivityLog appends one sales activity report to the log sheet.
func (w *StatusWorkflow) CreateActivityLog(ctx context.Context, actor models.User, payload models.ActivityLogPayload) (models.MutationResult, error) {
	if payload.Manager == "" {
		payload.Manager = actor.Name
	}
	result, err := w.sheets.SubmitMutation(ctx, models.MutationSalesLog, payload)
	success := err == nil && result.Success
	w.recordAudit(models.MutationSalesLog, actor, payload.ProjectName, "", success, result.Message)
	if err != nil {
		return models.MutationResult{}, err
	}
	return result, nil
}

// GenerateDocument asks the sheet script to produce a document (proposal,
// summary, ...) for one announcement and returns whatever the script answers,
// typically a file URL in Data.
func (w *StatusWorkflow) GenerateDocument(ctx context.Context, actor models.User, rec models.CanonicalRecord) (models.MutationResult, error) {
	payload := map[string]string{
		"bidNtceNo": rec.ID,
		"title":     rec.Title,
		"requestedBy": actor.Email,
	}
	result, err := w.sheets.SubmitMutation(ctx, models.MutationGenerateDocument, payload)
	success := err == nil && result.Success
	w.recordAudit(models.MutationGenerateDocument, actor, rec.ID, "", success, result.Message)
	if err != nil {
		return models.MutationResult{}, err
	}
	return result, nil
}

func (w *StatusWorkflow) recordAudit(kind models.MutationKind, actor models.User, key, status string, success bool, message string) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Record(AuditEntry{
		Kind:    string(kind),
		Actor:   actor.Email,
		RowKey:  key,
		Status:  status,
		Success: success,
		Message: message,
	}); err != nil {
		log.Printf("⚠️ Audit write failed: %v", err)
	}
}
