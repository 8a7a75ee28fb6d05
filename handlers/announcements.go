package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/services"
	"github.com/koreasuan/rainmaker-api/utils"
)

// AnnouncementHandler serves the procurement announcement list and its
// per-announcement actions (assignee request, AI rating suggestion, document
// generation).
type AnnouncementHandler struct {
	Snapshots *services.SnapshotService
	Workflow  *services.StatusWorkflow
	Suggester *services.RatingSuggester
}

// List returns announcements through the compound filter. Empty or "ALL"
// dimensions are bypassed; all set dimensions must match.
func (h *AnnouncementHandler) List(c *gin.Context) {
	records, err := h.Snapshots.Load(c.Request.Context(), services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}

	opts := services.FilterOptions{
		Text:       c.Query("text"),
		RatingTier: c.Query("tier"),
		Region:     c.Query("region"),
	}
	filtered := services.Filter(records, opts)

	c.JSON(http.StatusOK, gin.H{
		"total":   len(filtered),
		"records": filtered,
	})
}

// Get looks one announcement up by notice number, falling back to positional
// index for rows the sheet never numbered.
func (h *AnnouncementHandler) Get(c *gin.Context) {
	records, err := h.Snapshots.Load(c.Request.Context(), services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}

	rec, ok := findAnnouncement(records, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func findAnnouncement(records []models.CanonicalRecord, id string) (models.CanonicalRecord, bool) {
	decoded, err := url.QueryUnescape(id)
	if err != nil {
		decoded = id
	}
	decoded = strings.TrimSpace(decoded)

	for _, rec := range records {
		if rec.ID != "" && rec.ID == decoded {
			return rec, true
		}
	}
	if idx, err := strconv.Atoi(decoded); err == nil && idx >= 0 && idx < len(records) {
		return records[idx], true
	}
	return models.CanonicalRecord{}, false
}

// Assign files the caller as the announcement's sales assignee. Final
// approval of the assignment stays with the sheet's admins.
func (h *AnnouncementHandler) Assign(c *gin.Context) {
	actor := middleware.GetUser(c)

	records, err := h.Snapshots.Load(c.Request.Context(), services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	rec, ok := findAnnouncement(records, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	result, err := h.Workflow.RequestAssign(c.Request.Context(), actor, c.Param("id"), rec)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assignment request failed"})
		return
	}
	utils.LogWorkflowAction(string(models.MutationAssignBid), actor.Email, rec.ID, result.Success)
	c.JSON(http.StatusOK, result)
}

// SuggestRating asks the AI for a grade on an unrated announcement. The
// suggestion goes back to the caller only; writing it into the sheet stays a
// human decision.
func (h *AnnouncementHandler) SuggestRating(c *gin.Context) {
	if h.Suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rating suggestions are not configured"})
		return
	}

	records, err := h.Snapshots.Load(c.Request.Context(), services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	rec, ok := findAnnouncement(records, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	suggestion, err := h.Suggester.Suggest(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Suggestion failed"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GenerateDocument asks the sheet script to produce a document for the
// announcement and relays whatever it answers (typically a file URL).
func (h *AnnouncementHandler) GenerateDocument(c *gin.Context) {
	actor := middleware.GetUser(c)

	records, err := h.Snapshots.Load(c.Request.Context(), services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	rec, ok := findAnnouncement(records, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	result, err := h.Workflow.GenerateDocument(c.Request.Context(), actor, rec)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Document generation failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
