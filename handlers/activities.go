package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/services"
	"github.com/koreasuan/rainmaker-api/utils"
)

// ActivityHandler appends sales activity reports to the log sheet.
type ActivityHandler struct {
	Workflow *services.StatusWorkflow
}

type activityRequest struct {
	Date        string `json:"date"`
	Content     string `json:"content" binding:"required"`
	Category    string `json:"category"`
	Orderer     string `json:"orderer"`
	ProjectName string `json:"project_name"`
	BidID       string `json:"bid_id"`
	BidNtceNo   string `json:"bid_ntce_no"`
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.GetUser(c)

	payload := models.ActivityLogPayload{
		Date:        req.Date,
		Content:     req.Content,
		MainWork:    req.Content,
		Manager:     actor.Name,
		Category:    req.Category,
		Orderer:     req.Orderer,
		ProjectName: req.ProjectName,
		BidID:       req.BidID,
		BidNtceNo:   req.BidNtceNo,
	}
	if payload.Date == "" {
		payload.Date = time.Now().Format("2006-01-02")
	}
	if payload.Category == "" {
		payload.Category = "영업활동"
	}
	if payload.Orderer == "" {
		payload.Orderer = "발주처 미정"
	}

	result, err := h.Workflow.CreateActivityLog(c.Request.Context(), actor, payload)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save activity"})
		return
	}
	utils.LogWorkflowAction(string(models.MutationSalesLog), actor.Email, payload.ProjectName, result.Success)
	c.JSON(http.StatusCreated, result)
}
