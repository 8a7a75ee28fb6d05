package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/handlers"
	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/services"
)

// SetupAuthRoutes sets up the public login route.
func SetupAuthRoutes(rg *gin.RouterGroup, sheets *services.SheetClient, jwtSecret string, sessionTTL time.Duration) {
	authHandler := &handlers.AuthHandler{
		Sheets:     sheets,
		JWTSecret:  jwtSecret,
		SessionTTL: sessionTTL,
	}

	rg.POST("/auth/login", authHandler.Login)
}

// SetupDashboardRoutes sets up the protected read surface: KPI summary,
// announcement list/detail and the report tabs.
func SetupDashboardRoutes(rg *gin.RouterGroup, snapshots *services.SnapshotService, workflow *services.StatusWorkflow) {
	dashboard := &handlers.DashboardHandler{Snapshots: snapshots}
	announcements := &handlers.AnnouncementHandler{Snapshots: snapshots, Workflow: workflow}
	reports := &handlers.ReportHandler{Snapshots: snapshots, Workflow: workflow}

	rg.GET("/dashboard/summary", dashboard.GetSummary)

	rg.GET("/announcements", announcements.List)
	rg.GET("/announcements/:id", announcements.Get)
	rg.POST("/announcements/:id/assign", announcements.Assign)
	rg.POST("/announcements/:id/document", announcements.GenerateDocument)

	rg.GET("/reports/:dataset", reports.List)
	rg.GET("/reports/:dataset/export", reports.Export)
}

// SetupWorkflowRoutes sets up the manager-gated surface. The role check lives
// here, at the caller: the workflow component takes the actor as an argument
// and trusts it.
func SetupWorkflowRoutes(rg *gin.RouterGroup, snapshots *services.SnapshotService, workflow *services.StatusWorkflow, suggester *services.RatingSuggester, audit *services.AuditLog) {
	reports := &handlers.ReportHandler{Snapshots: snapshots, Workflow: workflow}
	announcements := &handlers.AnnouncementHandler{
		Snapshots: snapshots,
		Workflow:  workflow,
		Suggester: suggester,
	}
	admin := &handlers.AdminHandler{Audit: audit}

	managers := rg.Group("/")
	managers.Use(middleware.RequireRole(models.RoleManager))
	{
		managers.POST("/reports/:dataset/status", reports.UpdateStatus)
		managers.POST("/announcements/:id/rating-suggestion", announcements.SuggestRating)
		managers.GET("/admin/audit", admin.GetAuditLog)
	}
}

// SetupActivityRoutes sets up the activity-log write path, open to every
// authenticated user.
func SetupActivityRoutes(rg *gin.RouterGroup, workflow *services.StatusWorkflow) {
	activities := &handlers.ActivityHandler{Workflow: workflow}

	rg.POST("/activities", activities.Create)
}
