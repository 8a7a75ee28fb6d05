package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/services"
)

// DashboardHandler serves the KPI strip. Both datasets are loaded per request:
// each read is a fresh round trip to the authoritative sheet, coalesced with
// any concurrent identical load by the snapshot service.
type DashboardHandler struct {
	Snapshots *services.SnapshotService
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()

	announcements, err := h.Snapshots.Load(ctx, services.DatasetAnnouncements)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}
	quotes, err := h.Snapshots.Load(ctx, services.DatasetMonthlyQuote)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
		return
	}

	summary := services.ComputeKPIs(announcements, quotes, time.Now())
	c.JSON(http.StatusOK, summary)
}
