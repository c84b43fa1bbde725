package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/russellmoss/dashboard-api/internal/application/analytics"
	"github.com/russellmoss/dashboard-api/internal/application/auth"
	"github.com/russellmoss/dashboard-api/internal/application/refresh"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	Analytics       *analytics.Service
	Refresh         *refresh.Coordinator
	Cache           *cache.Gateway
	UserUC          *usecase.UserUseCase
	GoalUC          *usecase.GoalUseCase
	RequestUC       *usecase.RequestUseCase
	ScoreUC         *usecase.ScoreUseCase
	JWTSecret       string
	SchedulerSecret string
	Registry        *prometheus.Registry
}

// Router registra las rutas de la API. La composición de guards es explícita
// por ruta: primero autenticación, luego page guard o guard de rol, y el
// handler al final.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth: login público; registro solo para gestores de usuarios.
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register",
		AuthMiddleware(deps.JWTSecret),
		RequireAnyRole(access.RoleAdmin, access.RoleRevOpsAdmin),
		authHandler.Register)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Tick del scheduler: shared secret, fuera del flujo JWT.
	refreshHandler := NewRefreshHandler(deps.Refresh, deps.Cache)
	api.Post("/refresh/scheduled", SchedulerAuth(deps.SchedulerSecret), refreshHandler.TriggerScheduled)

	// Rutas protegidas.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Analítica del dashboard.
	analyticsHandler := NewAnalyticsHandler(deps.Analytics)
	ag := protected.Group("/analytics")
	ag.Get("/funnel", RequirePage(access.PageFunnel), analyticsHandler.FunnelSummary)
	ag.Get("/funnel/trend/:transition", RequirePage(access.PageFunnel), analyticsHandler.FunnelTrend)
	ag.Get("/leaderboard", RequirePage(access.PageLeaderboard), analyticsHandler.Leaderboard)
	ag.Get("/advisors/:name", RequirePage(access.PageAdvisorDetail), analyticsHandler.AdvisorDetail)

	// Hub (segunda superficie).
	protected.Get("/hub/summary", RequirePage(access.PageHub), analyticsHandler.HubSummary)

	// Refresh: el trigger manual consume el cooldown global, así que solo
	// admin y manager pueden dispararlo. El polling de runs es de solo
	// lectura y queda abierto a los roles internos.
	rg := protected.Group("/refresh", ForbidRole(access.RoleCapitalPartner, access.RoleViewer))
	rg.Post("/", RequireAnyRole(access.RoleAdmin, access.RoleManager), refreshHandler.Trigger)
	rg.Get("/runs", refreshHandler.ListRuns)
	rg.Get("/runs/:id", refreshHandler.GetRun)

	// Operación: invalidación manual de caché, solo admin.
	admin := protected.Group("/admin", RequireAnyRole(access.RoleAdmin))
	admin.Post("/cache/invalidate", refreshHandler.InvalidateCache)

	// Usuarios.
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", RequireAnyRole(access.RoleAdmin, access.RoleRevOpsAdmin))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/status", userHandler.SetStatus)

	// Metas.
	goalHandler := NewGoalHandler(deps.GoalUC)
	goals := protected.Group("/goals", RequirePage(access.PageGoals))
	goals.Get("/", goalHandler.List)
	goals.Post("/", RequireAnyRole(access.RoleAdmin, access.RoleManager, access.RoleRevOpsAdmin), goalHandler.Create)
	goals.Patch("/:id/actual", RequireAnyRole(access.RoleAdmin, access.RoleManager, access.RoleRevOpsAdmin), goalHandler.UpdateActual)
	goals.Delete("/:id", RequireAnyRole(access.RoleAdmin, access.RoleRevOpsAdmin), goalHandler.Delete)

	// Solicitudes internas.
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests := protected.Group("/requests", RequirePage(access.PageRequests))
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/open", RequireAnyRole(access.RoleAdmin, access.RoleManager, access.RoleRevOpsAdmin), requestHandler.ListOpen)
	requests.Patch("/:id/status", RequireAnyRole(access.RoleAdmin, access.RoleManager, access.RoleRevOpsAdmin), requestHandler.UpdateStatus)

	// Minijuego.
	scoreHandler := NewScoreHandler(deps.ScoreUC)
	game := protected.Group("/game", RequirePage(access.PageGame))
	game.Post("/scores", scoreHandler.Submit)
	game.Get("/leaderboard", scoreHandler.Leaderboard)
}
