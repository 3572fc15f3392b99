// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ecocollect/platform/internal/handler"
	"github.com/ecocollect/platform/internal/middleware"
	"github.com/ecocollect/platform/internal/model"
)

// Handlers bundles every handler group the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Citizen   *handler.CitizenHandler
	Collector *handler.CollectorHandler
	Admin     *handler.AdminHandler
	Rewards   *handler.RewardsHandler
	Shared    *handler.SharedHandler
}

// Register mounts all application routes on the provided Echo instance.
// Unauthenticated operations live under /v1/auth (plus the health check
// at /healthz); everything else lives under /v1 behind the session
// middleware, with role middleware applied per group. The cache middleware
// is applied only to catalog endpoints whose responses do not depend on
// the caller, since the cache key carries no user identity.
func Register(e *echo.Echo, h Handlers, sessionSecret string, cache echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Session lifecycle: register, login, logout. Logout clears the
	// cookie regardless of its validity, so it needs no middleware.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)

	// Public catalog content: the waste guide and the rewards catalog are
	// the same for everyone, so they sit outside the session middleware and
	// behind the response cache.
	e.GET("/v1/waste-guide", h.Shared.ListWasteGuide, cache)
	e.GET("/v1/waste-guide/search", h.Shared.SearchWasteGuide, cache)
	e.GET("/v1/rewards", h.Rewards.Catalog, cache)

	// Everything below requires a valid session token.
	v1 := e.Group("/v1", middleware.SessionAuth(sessionSecret))

	// Endpoints shared by every authenticated role.
	v1.GET("/me", h.Auth.Me)
	v1.GET("/notifications", h.Shared.ListNotifications)
	v1.PATCH("/notifications/:id/read", h.Shared.MarkNotificationRead)
	v1.POST("/points/award", h.Rewards.AwardPoints)
	v1.POST("/rewards/:id/redeem", h.Rewards.Redeem)
	v1.GET("/redemptions", h.Rewards.Redemptions)
	v1.GET("/messages", h.Shared.GetMessages)
	v1.POST("/messages", h.Shared.SendMessage)

	// Citizen endpoints: field reports and the dashboard.
	citizenOnly := middleware.RequireRole(model.RoleCitizen)
	v1.POST("/reports", h.Citizen.SubmitReport, citizenOnly)
	v1.GET("/reports", h.Citizen.ListReports, citizenOnly)
	v1.GET("/stats", h.Citizen.Stats, citizenOnly)
	v1.GET("/pickups", h.Citizen.Pickups, citizenOnly)

	// Collector endpoints: the task queue, issue reports and bin levels.
	collectorOnly := middleware.RequireRole(model.RoleCollector)
	v1.GET("/tasks", h.Collector.ListTasks, collectorOnly)
	v1.PATCH("/tasks/:id/status", h.Collector.UpdateTaskStatus, collectorOnly)
	v1.POST("/issues", h.Collector.ReportIssue, collectorOnly)
	v1.GET("/bins", h.Collector.ListBins, middleware.RequireRole(model.RoleCollector, model.RoleAdmin))

	// Admin endpoints: fleet stats, report triage, dispatch and content.
	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/reports", h.Admin.ListReports)
	admin.PATCH("/reports/:id/status", h.Admin.UpdateReportStatus)
	admin.POST("/tasks", h.Admin.CreateTask)
	admin.GET("/tasks", h.Admin.ListTasks)
	admin.PATCH("/bins/:id", h.Admin.UpdateBin)
	admin.GET("/collectors", h.Admin.ListCollectors)
	admin.PUT("/waste-guide", h.Admin.UpsertWasteGuide)
	admin.PUT("/waste-guide/:id", h.Admin.UpsertWasteGuide)
}
