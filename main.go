package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/koreasuan/rainmaker-api/config"
	"github.com/koreasuan/rainmaker-api/handlers"
	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/routes"
	"github.com/koreasuan/rainmaker-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	audit, err := services.OpenAuditLog(cfg.AuditDBPath)
	if err != nil {
		log.Fatal("Failed to open audit log:", err)
	}
	defer audit.Close()

	log.Println("✅ Audit log ready at", cfg.AuditDBPath)

	sheets := services.NewSheetClient(cfg.SheetAPIURL, cfg.SheetTimeout)
	normalizer := services.NewNormalizer(aliasOverrides(cfg))
	snapshots := services.NewSnapshotService(sheets, normalizer)

	notifier := services.NewNotifier(cfg.SlackToken, cfg.SlackChannel)
	if notifier != nil {
		log.Println("✅ Slack approval notifications enabled")
	}
	suggester := services.NewRatingSuggester(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	if suggester != nil {
		log.Println("✅ AI rating suggestions enabled")
	}

	workflow := services.NewStatusWorkflow(sheets, snapshots, audit, notifier)

	wsHandler := handlers.NewWSHandler()
	snapshots.OnRefresh(wsHandler.BroadcastRefresh)

	scheduleRefresh(cfg.RefreshSchedule, snapshots)

	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("📨 %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})

	router.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateLimitWindow))

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, sheets, cfg.JWTSecret, cfg.SessionTTL)
		v1.GET("/ws/dashboard", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			routes.SetupDashboardRoutes(protected, snapshots, workflow)
			routes.SetupActivityRoutes(protected, workflow)
			routes.SetupWorkflowRoutes(protected, snapshots, workflow, suggester, audit)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// aliasOverrides converts the config's plain alias maps into the normalizer's
// typed tables.
func aliasOverrides(cfg *config.Config) map[string]services.AliasTable {
	if len(cfg.AliasOverrides) == 0 {
		return nil
	}
	out := make(map[string]services.AliasTable, len(cfg.AliasOverrides))
	for dataset, fields := range cfg.AliasOverrides {
		table := services.AliasTable{}
		for field, aliases := range fields {
			table[services.Field(field)] = aliases
		}
		out[dataset] = table
	}
	return out
}

// scheduleRefresh keeps the announcements snapshot warm on a cron schedule so
// connected dashboards get refresh pushes without polling.
func scheduleRefresh(schedule string, snapshots *services.SnapshotService) {
	if schedule == "" {
		log.Println("Background refresh disabled (REFRESH_SCHEDULE not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid REFRESH_SCHEDULE %q: %v (background refresh disabled)", schedule, err)
		return
	}
	log.Printf("Background refresh scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			time.Sleep(next.Sub(now))

			if _, err := snapshots.Load(context.Background(), services.DatasetAnnouncements); err != nil {
				log.Printf("⚠️ Background refresh failed: %v", err)
			}
		}
	}()
}
