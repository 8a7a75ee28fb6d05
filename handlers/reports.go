package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/services"
	"github.com/koreasuan/rainmaker-api/utils"
)

// ReportHandler serves the report tabs and the approval workflow over them.
type ReportHandler struct {
	Snapshots *services.SnapshotService
	Workflow  *services.StatusWorkflow
}

func datasetParam(c *gin.Context) (string, bool) {
	dataset := c.Param("dataset")
	if !services.ReportDatasets[dataset] {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown dataset %q", dataset)})
		return "", false
	}
	return dataset, true
}

// List returns one report tab's rows, newest first.
func (h *ReportHandler) List(c *gin.Context) {
	dataset, ok := datasetParam(c)
	if !ok {
		return
	}

	records, err := h.Snapshots.Load(c.Request.Context(), dataset)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset": dataset,
		"total":   len(records),
		"records": records,
	})
}

// StatusUpdateRequest identifies a report row by its natural key and carries
// the requested transition.
type StatusUpdateRequest struct {
	Date     string        `json:"date" binding:"required"`
	Content  string        `json:"content" binding:"required"`
	Manager  string        `json:"manager"`
	Status   models.Status `json:"status" binding:"required"`
	Feedback string        `json:"feedback"`
}

// UpdateStatus runs one approval transition. The route is gated on the
// manager role; the actor is read from the session and handed to the workflow
// explicitly, since the workflow itself checks no authorization.
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	dataset, ok := datasetParam(c)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown status %q", req.Status)})
		return
	}

	records, err := h.Snapshots.Load(c.Request.Context(), dataset)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	rec, found := findReportRow(records, req)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report row not found"})
		return
	}

	actor := middleware.GetUser(c)
	outcome := h.Workflow.RequestTransition(c.Request.Context(), actor, dataset, rec, req.Status, req.Feedback)
	utils.LogWorkflowAction(string(models.MutationUpdateStatus), actor.Email, rec.Title, outcome.Success)

	status := http.StatusOK
	if !outcome.Success {
		// The reload already reverted the view to the authoritative state;
		// the caller still needs to tell the user the change did not stick.
		status = http.StatusConflict
	}
	c.JSON(status, outcome)
}

// findReportRow matches on the same natural key the sheet script uses:
// date + content + manager. Manager is optional for rows that never had one.
func findReportRow(records []models.CanonicalRecord, req StatusUpdateRequest) (models.CanonicalRecord, bool) {
	for _, rec := range records {
		if rec.Date != req.Date || rec.Title != req.Content {
			continue
		}
		if req.Manager != "" && rec.Assignee != req.Manager {
			continue
		}
		return rec, true
	}
	return models.CanonicalRecord{}, false
}

// Export streams one report tab as an XLSX workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	dataset, ok := datasetParam(c)
	if !ok {
		return
	}

	records, err := h.Snapshots.Load(c.Request.Context(), dataset)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}

	file, err := services.ExportReport(dataset, records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", dataset, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		// Headers are gone already; log only.
		utils.SafeError("xlsx write failed: %v", err)
	}
}
