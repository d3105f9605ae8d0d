package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/face-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/feed"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
	adminService "github.com/cmlabs-hris/face-attendance-go/internal/service/admin"
	attendanceService "github.com/cmlabs-hris/face-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/face-attendance-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/face-attendance-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/face-attendance-go/internal/service/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/service/file"
	recognitionService "github.com/cmlabs-hris/face-attendance-go/internal/service/recognition"
	reportService "github.com/cmlabs-hris/face-attendance-go/internal/service/report"
	settingsService "github.com/cmlabs-hris/face-attendance-go/internal/service/settings"

	domainSettings "github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/go-chi/httplog/v3"
)

const (
	listenerRetryDelay = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.App.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "face-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		slog.Info("Database schema is up to date")
	}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	adminRepo := postgresql.NewAdminRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		localStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		fileStorage = localStorage
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.FacesBucket)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL(), cfg.App.IsProduction())

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(
			cfg.OAuth2Google.ClientID,
			cfg.OAuth2Google.ClientSecret,
			cfg.OAuth2Google.RedirectURL,
			cfg.OAuth2Google.Scopes,
		)
	}

	hub := sse.NewHub()
	feedClient := feed.NewClient(cfg.Recognition.FeedURL, cfg.Recognition.ReconnectDelay, recognitionService.NewFeedHandler(hub))

	recognitionSvc := recognitionService.NewRecognitionService(feedClient, hub)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, txManager, domainSettings.WorkSettings{
		WorkingHours:  cfg.Attendance.WorkingHours,
		WorkStartTime: cfg.Attendance.WorkStartTime,
		WorkEndTime:   cfg.Attendance.WorkEndTime,
	})
	authSvc := serviceAuth.NewAuthService(txManager, userRepo, adminRepo, JWTService, JWTRepository)
	adminSvc := adminService.NewAdminService(txManager, adminRepo, userRepo, emailService, strings.TrimRight(cfg.App.FrontendURL, "/")+"/login")
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, fileService, cfg.Recognition.Cooldown, loc)
	employeeSvc := employeeService.NewEmployeeService(txManager, employeeRepo, attendanceRepo, fileService, recognitionSvc)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, settingsSvc, loc)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, recognitionSvc, loc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     cfg.Storage.BasePath,
		RecognizerKey:  cfg.Recognition.APIKey,
	}, JWTService, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, cfg.App.IsProduction()),
		Admin:       appHTTP.NewAdminHandler(adminSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc, attendanceSvc),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
		Report:      appHTTP.NewReportHandler(reportSvc),
		Dashboard:   appHTTP.NewDashboardHandler(dashboardSvc),
		Settings:    appHTTP.NewSettingsHandler(settingsSvc),
		Recognition: appHTTP.NewRecognitionHandler(recognitionSvc),
		Stream:      appHTTP.NewStreamHandler(JWTService, hub),
	})

	// Row changes reach every dashboard through the trigger's NOTIFY
	listener := database.NewListener(db, database.AttendanceChannel, listenerRetryDelay, func(ctx context.Context, payload string) {
		hub.Broadcast(sse.EventAttendanceChanged, json.RawMessage(payload))
	})
	go listener.Run(ctx)
	go feedClient.Run(ctx)

	scheduler := cron.NewScheduler()
	jobs := cron.NewAttendanceJobs(recognitionSvc, reportSvc, settingsSvc, adminRepo, emailService, JWTRepository, cfg.Recognition.StatusInterval, loc)
	jobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
