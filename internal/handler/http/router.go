package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	UploadsDir     string
	RecognizerKey  string
}

type Handlers struct {
	Auth        AuthHandler
	Admin       AdminHandler
	Employee    EmployeeHandler
	Attendance  AttendanceHandler
	Report      ReportHandler
	Dashboard   DashboardHandler
	Settings    SettingsHandler
	Recognition RecognitionHandler
	Stream      StreamHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.RecognizerKeyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
		// Long-lived SSE connections would otherwise log once per disconnect
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/stream" && respStatus == http.StatusOK
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	ja := JWTService.JWTAuth()

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(ja))
				r.Use(middleware.AuthRequired)
				r.Use(middleware.AdminOnly)
				r.Get("/sse-token", h.Auth.SSEToken)
			})
		})

		// Realtime feed, authenticated by the SSE token in the query
		r.Get("/stream", h.Stream.Stream)

		// Reachable by the recognition engine with its shared key, or by an admin
		r.Group(func(r chi.Router) {
			r.Use(middleware.RecognizerKeyOrAdmin(cfg.RecognizerKey, ja))
			r.Post("/attendance", h.Attendance.Record)
			r.Post("/attendance/{id}/snapshot", h.Attendance.UploadSnapshot)
			r.Post("/recognition/status", h.Recognition.ReportStatus)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.AdminOnly)

			r.Route("/admins", func(r chi.Router) {
				r.Get("/", h.Admin.ListAdmins)
				r.Post("/", h.Admin.CreateAdmin)
				r.Get("/me", h.Admin.Me)
				r.Delete("/{id}", h.Admin.DeleteAdmin)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Get("/search", h.Employee.SearchEmployees)
				r.Post("/import", h.Employee.ImportEmployees)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.Put("/", h.Employee.UpdateEmployee)
					r.Delete("/", h.Employee.DeleteEmployee)
					r.Post("/photo", h.Employee.UploadPhoto)
					r.Delete("/photo", h.Employee.DeletePhoto)
					r.Post("/face", h.Employee.RegisterFace)
					r.Get("/attendance", h.Employee.ListAttendance)
				})
			})

			// Flat patterns: the recognizer group above shares the /attendance prefix
			r.Get("/attendance", h.Attendance.List)
			r.Get("/attendance/{id}", h.Attendance.Get)
			r.Delete("/attendance/{id}", h.Attendance.Delete)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/daily", h.Report.DailySummary)
				r.Get("/daily/export", h.Report.ExportDaily)

				r.Route("/employees/{id}", func(r chi.Router) {
					r.Get("/monthly", h.Report.PersonMonthly)
					r.Get("/monthly/export", h.Report.ExportPersonMonthly)
					r.Get("/calendar", h.Report.PersonCalendar)
					r.Get("/activities", h.Report.DailyActivities)
					r.Get("/activities/export", h.Report.ExportDailyActivities)
					r.Get("/daily", h.Report.DateSpecific)
				})
			})

			r.Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.GetSettings)
				r.Put("/working-hours", h.Settings.UpdateWorkingHours)
				r.Put("/work-time", h.Settings.UpdateWorkTime)
			})

			r.Get("/recognition/status", h.Recognition.Status)
			r.Post("/recognition/refresh", h.Recognition.RefreshFaces)
		})
	})
	return r
}
