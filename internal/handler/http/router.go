package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/middleware"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env         string
	Version     string
	CORSOrigins []string
	// UploadsDir, when set, is served read-only under /uploads for the local
	// photo store.
	UploadsDir string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	User       UserHandler
	Settings   SettingsHandler
	Adjustment AdjustmentHandler
	Payroll    PayrollHandler
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-payroll"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/current", h.Attendance.GetCurrent)
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Post("/lunch-in", h.Attendance.LunchIn)
				r.Post("/lunch-out", h.Attendance.LunchOut)
				r.Get("/my", h.Attendance.GetMyHistory)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.Attendance.List)
					r.Get("/today", h.Attendance.GetToday)
					r.Get("/report/{userID}", h.Attendance.GetReport)
					r.Post("/auto-clock-out", h.Attendance.AutoClockOut)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", h.User.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Put("/{id}/rate", h.User.UpdateHourlyRate)
					r.Put("/{id}/flags", h.User.UpdateFlags)
					r.Put("/{id}/lunch", h.User.UpdateLunchWindow)
					r.Get("/{id}/rate-history", h.User.GetRateHistory)
				})
			})

			r.Route("/working-hours", func(r chi.Router) {
				r.Get("/", h.Settings.ListWorkingHours)
				r.Get("/check", h.Settings.CheckWorkingHours)
				r.With(middleware.RequireAdmin).Put("/", h.Settings.UpsertWorkingHours)
			})

			r.Route("/rates", func(r chi.Router) {
				r.Get("/", h.Settings.ListRates)
				r.Get("/{role}", h.Settings.GetRate)
				r.With(middleware.RequireAdmin).Put("/", h.Settings.SetRate)
			})

			r.Route("/deductions", func(r chi.Router) {
				r.Get("/", h.Settings.ListDeductions)
				r.Get("/{name}", h.Settings.GetDeduction)
				r.Get("/{name}/history", h.Settings.DeductionHistory)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/", h.Settings.SetDeduction)
					r.Delete("/{name}", h.Settings.DeleteDeduction)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", h.Adjustment.ListAdvances)
				r.With(middleware.RequireAdmin).Post("/", h.Adjustment.CreateAdvance)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/", h.Adjustment.ListOvertime)
				r.With(middleware.RequireAdmin).Post("/", h.Adjustment.AuthorizeOvertime)
			})

			r.Route("/hour-corrections", func(r chi.Router) {
				r.Get("/", h.Adjustment.ListCorrections)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Adjustment.RecordCorrection)
					r.Put("/{id}", h.Adjustment.UpdateCorrection)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/payslip", h.Payroll.GetPayslip)
				r.Get("/net-pay", h.Payroll.GetNetPay)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/summary", h.Payroll.GetSummary)
					r.Get("/export", h.Payroll.ExportSummary)
				})
			})
		})
	})
	return r
}
