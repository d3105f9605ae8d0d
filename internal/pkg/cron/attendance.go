package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

const (
	digestCheckInterval  = 10 * time.Minute
	tokenCleanupInterval = 6 * time.Hour
)

// RefreshTokenCleaner removes refresh tokens that can no longer be used.
type RefreshTokenCleaner interface {
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

type AttendanceJobs struct {
	recognitionSvc recognition.RecognitionService
	reportSvc      report.ReportService
	settingsSvc    settings.SettingsService
	adminRepo      admin.AdminRepository
	emailSvc       email.EmailService
	tokens         RefreshTokenCleaner
	statusInterval time.Duration
	loc            *time.Location
	now            func() time.Time

	mu             sync.Mutex
	lastDigestDate string
}

func NewAttendanceJobs(
	recognitionSvc recognition.RecognitionService,
	reportSvc report.ReportService,
	settingsSvc settings.SettingsService,
	adminRepo admin.AdminRepository,
	emailSvc email.EmailService,
	tokens RefreshTokenCleaner,
	statusInterval time.Duration,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		recognitionSvc: recognitionSvc,
		reportSvc:      reportSvc,
		settingsSvc:    settingsSvc,
		adminRepo:      adminRepo,
		emailSvc:       emailSvc,
		tokens:         tokens,
		statusInterval: statusInterval,
		loc:            loc,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recognition_status_poll", j.statusInterval, j.PollRecognitionStatus)
	scheduler.AddJob("daily_attendance_digest", digestCheckInterval, j.SendDailyDigest)
	scheduler.AddJob("refresh_token_cleanup", tokenCleanupInterval, j.CleanupRefreshTokens)
}

// PollRecognitionStatus asks the recognizer for fresh counters; a missing connection is not an error.
func (j *AttendanceJobs) PollRecognitionStatus(ctx context.Context) error {
	err := j.recognitionSvc.RequestStatus(ctx)
	if errors.Is(err, recognition.ErrRecognizerUnavailable) {
		slog.Debug("Cron: recognizer not connected, status poll skipped")
		return nil
	}
	return err
}

// SendDailyDigest emails every admin once per day, after the configured end of work.
func (j *AttendanceJobs) SendDailyDigest(ctx context.Context) error {
	now := j.now().In(j.loc)
	today := now.Format(worktime.DateLayout)

	j.mu.Lock()
	alreadySent := j.lastDigestDate == today
	j.mu.Unlock()
	if alreadySent {
		return nil
	}

	work := j.settingsSvc.GetWorkSettings(ctx)
	endSeconds, err := worktime.ParseClock(work.WorkEndTime)
	if err != nil {
		return fmt.Errorf("invalid work end time %q: %w", work.WorkEndTime, err)
	}
	if now.Hour()*3600+now.Minute()*60+now.Second() < endSeconds {
		return nil
	}

	slog.Info("Cron: Sending daily attendance digest", "date", today)

	summary, err := j.reportSvc.DailySummary(ctx, report.DailyReportRequest{Date: today})
	if err != nil {
		return fmt.Errorf("failed to build daily summary: %w", err)
	}

	admins, err := j.adminRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	digest := buildDigest(summary)
	sent := 0
	for _, a := range admins {
		if err := j.emailSvc.SendDailySummary(a.Email, digest); err != nil {
			slog.Error("Cron: Failed to send daily digest", "admin_id", a.ID, "error", err)
			continue
		}
		sent++
	}

	if sent == 0 && len(admins) > 0 {
		slog.Warn("Cron: Daily digest not delivered, retrying on next tick", "date", today, "admins", len(admins))
		return nil
	}

	j.mu.Lock()
	j.lastDigestDate = today
	j.mu.Unlock()

	slog.Info("Cron: Daily attendance digest sent", "date", today, "recipients", sent, "admins", len(admins))
	return nil
}

// CleanupRefreshTokens deletes expired and revoked refresh tokens.
func (j *AttendanceJobs) CleanupRefreshTokens(ctx context.Context) error {
	deleted, err := j.tokens.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: Expired refresh tokens removed", "count", deleted)
	}
	return nil
}

func buildDigest(summary report.DailySummaryResponse) email.DailyDigest {
	digest := email.DailyDigest{
		Date:       summary.Date,
		Employees:  summary.Totals.Employees,
		Present:    summary.Totals.Present,
		Absent:     summary.Totals.Absent,
		Late:       summary.Totals.Late,
		UnderHours: summary.Totals.UnderHours,
		Rows:       make([]email.DigestRow, 0, len(summary.Rows)),
	}
	for _, row := range summary.Rows {
		digest.Rows = append(digest.Rows, email.DigestRow{
			Name:      row.EmployeeName,
			EntryTime: row.EntryTime,
			ExitTime:  row.ExitTime,
			Hours:     row.AttendanceHours,
			Status:    row.Status,
		})
	}
	return digest
}
