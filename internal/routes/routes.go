package routes

import (
	"net/http"

	"github.com/templui/objectives/internal/app"
	"github.com/templui/objectives/internal/handler"
	"github.com/templui/objectives/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.DB, app.Cfg.AppName)
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService)
	account := handler.NewAccountHandler(app.UserService)
	profile := handler.NewProfileHandler(app.ProfileService)
	goal := handler.NewGoalHandler(app.GoalService)
	ledger := handler.NewLedgerHandler(app.LedgerService)
	milestone := handler.NewMilestoneHandler(app.MilestoneService)
	generation := handler.NewGenerationHandler(app.Generator)
	document := handler.NewDocumentHandler(app.DocumentService)
	rates := handler.NewRatesHandler(app.RateService)
	admin := handler.NewAdminHandler(app.AdminService)

	// Shorthands for role checks
	authed := middleware.RequireAuth
	editor := middleware.RequireEditor
	adminOnly := middleware.RequireAdmin

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Index)
	mux.HandleFunc("GET /healthz", home.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Profile & account
	mux.HandleFunc("GET /api/me", authed(profile.Me))
	mux.HandleFunc("PATCH /api/profile", authed(profile.Update))
	mux.HandleFunc("GET /api/profile/active-goal", authed(profile.ActiveGoal))
	mux.HandleFunc("PUT /api/profile/active-goal", authed(profile.SetActiveGoal))
	mux.HandleFunc("POST /api/account/password", authed(account.ChangePassword))

	// Reference data
	mux.HandleFunc("GET /api/rates", authed(rates.Latest))
	mux.HandleFunc("GET /api/categories", authed(ledger.Categories))

	// Goals
	mux.HandleFunc("GET /api/goals", authed(goal.List))
	mux.HandleFunc("POST /api/goals", editor(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", authed(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", editor(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", editor(goal.Delete))
	mux.HandleFunc("GET /api/goals/{id}/summary", authed(goal.Summary))

	// Ledger entries (append-only)
	mux.HandleFunc("GET /api/goals/{id}/entries", authed(ledger.List))
	mux.HandleFunc("POST /api/goals/{id}/entries", editor(ledger.Create))

	// Milestones
	generationLimiter := middleware.RateLimitGeneration()
	mux.HandleFunc("GET /api/goals/{id}/milestones", authed(milestone.List))
	mux.HandleFunc("POST /api/goals/{id}/milestones", editor(milestone.Append))
	mux.HandleFunc("POST /api/goals/{id}/milestones/bulk", editor(milestone.BulkSeed))
	mux.HandleFunc("POST /api/goals/{id}/milestones/generate", generationLimiter(editor(goal.RegenerateMilestones)))
	mux.HandleFunc("PATCH /api/goals/{id}/milestones/{milestoneID}/toggle", editor(milestone.Toggle))
	mux.HandleFunc("DELETE /api/goals/{id}/milestones/{milestoneID}", editor(milestone.Delete))
	// Routed for every method so that others get a JSON 405 before auth
	mux.HandleFunc("/api/milestones/generate", middleware.AllowMethods(http.MethodPost)(generationLimiter(authed(generation.Generate))))

	// Documents
	mux.HandleFunc("GET /api/goals/{id}/documents", authed(document.List))
	mux.HandleFunc("POST /api/goals/{id}/documents", editor(document.Create))
	mux.HandleFunc("POST /api/documents/{id}/file", editor(document.Upload))
	mux.HandleFunc("PATCH /api/documents/{id}/toggle", editor(document.Toggle))
	mux.HandleFunc("GET /api/documents/{id}/url", authed(document.URL))
	mux.HandleFunc("DELETE /api/documents/{id}", editor(document.Delete))

	// ============================================================================
	// ADMIN ROUTES (/api/admin/*)
	// ============================================================================

	mux.HandleFunc("GET /api/admin/users", adminOnly(admin.ListUsers))
	mux.HandleFunc("POST /api/admin/users", adminOnly(admin.CreateUser))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", adminOnly(admin.SetRole))
	mux.HandleFunc("PUT /api/admin/users/{id}/password", adminOnly(admin.SetPassword))
	mux.HandleFunc("DELETE /api/admin/users/{id}", adminOnly(admin.DeleteUser))
	mux.HandleFunc("DELETE /api/admin/goals/{id}", adminOnly(admin.DeleteGoal))
	mux.HandleFunc("PUT /api/admin/rates", adminOnly(rates.Set))
	mux.HandleFunc("POST /api/admin/rates/refresh", adminOnly(rates.Refresh))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders and CSRF cookies)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
		middleware.CSRFProtection, // Needs the auth method set by AuthMiddleware
	)

	return handler
}
