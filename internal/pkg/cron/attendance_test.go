package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognition struct {
	recognition.RecognitionService
	err   error
	calls int
}

func (f *fakeRecognition) RequestStatus(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeReport struct {
	report.ReportService
	dates []string
}

func (f *fakeReport) DailySummary(ctx context.Context, req report.DailyReportRequest) (report.DailySummaryResponse, error) {
	f.dates = append(f.dates, req.Date)
	return report.DailySummaryResponse{
		Date:   req.Date,
		Totals: report.DailyTotals{Employees: 2, Present: 1, Absent: 1},
		Rows: []report.DailySummaryRow{
			{EmployeeName: "Jane", EntryTime: "09:00", ExitTime: "17:00", AttendanceHours: "8:00", Status: "On Time"},
		},
	}, nil
}

type fakeSettings struct {
	settings.SettingsService
}

func (fakeSettings) GetWorkSettings(ctx context.Context) settings.WorkSettings {
	return settings.DefaultWorkSettings()
}

type fakeAdmins struct {
	admin.AdminRepository
}

func (fakeAdmins) List(ctx context.Context) ([]admin.Admin, error) {
	return []admin.Admin{{ID: "a1", Email: "one@example.com"}, {ID: "a2", Email: "two@example.com"}}, nil
}

type fakeEmail struct {
	to      []string
	digests []email.DailyDigest
	err     error
}

func (f *fakeEmail) SendAdminWelcome(to, name, loginURL string) error { return nil }

func (f *fakeEmail) SendDailySummary(to string, digest email.DailyDigest) error {
	f.to = append(f.to, to)
	if f.err != nil {
		return f.err
	}
	f.digests = append(f.digests, digest)
	return nil
}

type fakeTokens struct{ deleted int64 }

func (f fakeTokens) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return f.deleted, nil
}

func newJobs(rec *fakeRecognition, rep *fakeReport, mail *fakeEmail) *AttendanceJobs {
	return NewAttendanceJobs(rec, rep, fakeSettings{}, fakeAdmins{}, mail, fakeTokens{deleted: 3}, time.Minute, time.UTC)
}

func TestPollRecognitionStatus_IgnoresDisconnected(t *testing.T) {
	rec := &fakeRecognition{err: recognition.ErrRecognizerUnavailable}
	jobs := newJobs(rec, &fakeReport{}, &fakeEmail{})

	require.NoError(t, jobs.PollRecognitionStatus(context.Background()))
	assert.Equal(t, 1, rec.calls)
}

func TestSendDailyDigest_WaitsForEndOfWork(t *testing.T) {
	rep := &fakeReport{}
	mail := &fakeEmail{}
	jobs := newJobs(&fakeRecognition{}, rep, mail)
	jobs.now = func() time.Time { return time.Date(2025, 1, 2, 16, 59, 0, 0, time.UTC) }

	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	assert.Empty(t, rep.dates)
	assert.Empty(t, mail.to)
}

func TestSendDailyDigest_OncePerDay(t *testing.T) {
	rep := &fakeReport{}
	mail := &fakeEmail{}
	jobs := newJobs(&fakeRecognition{}, rep, mail)
	jobs.now = func() time.Time { return time.Date(2025, 1, 2, 17, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	require.NoError(t, jobs.SendDailyDigest(context.Background()))

	assert.Equal(t, []string{"2025-01-02"}, rep.dates)
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, mail.to)
	require.Len(t, mail.digests[0].Rows, 1)
	assert.Equal(t, "Jane", mail.digests[0].Rows[0].Name)
	assert.Equal(t, 1, mail.digests[0].Absent)

	jobs.now = func() time.Time { return time.Date(2025, 1, 3, 18, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	assert.Equal(t, []string{"2025-01-02", "2025-01-03"}, rep.dates)
}

func TestSendDailyDigest_RetriesWhenNothingSent(t *testing.T) {
	rep := &fakeReport{}
	mail := &fakeEmail{err: errors.New("smtp unavailable")}
	jobs := newJobs(&fakeRecognition{}, rep, mail)
	jobs.now = func() time.Time { return time.Date(2025, 1, 2, 17, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	assert.Len(t, mail.to, 4)
	assert.Empty(t, mail.digests)

	mail.err = nil
	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	require.NoError(t, jobs.SendDailyDigest(context.Background()))
	assert.Len(t, mail.to, 6)
	assert.Len(t, mail.digests, 2)
	assert.Equal(t, []string{"2025-01-02", "2025-01-02", "2025-01-02"}, rep.dates)
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler()
	newJobs(&fakeRecognition{}, &fakeReport{}, &fakeEmail{}).RegisterJobs(s)

	assert.Equal(t, []string{"recognition_status_poll", "daily_attendance_digest", "refresh_token_cleanup"}, s.Jobs())
}
