package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecognizerKey = "recognizer-secret"

type fakeAuthService struct {
	auth.AuthService
}

func (fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if req.Password != "correct-horse" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{
		AccessToken:           "access",
		AccessTokenExpiresIn:  time.Now().Add(time.Hour).Unix(),
		RefreshToken:          "refresh",
		RefreshTokenExpiresIn: time.Now().Add(24 * time.Hour).Unix(),
	}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	calls int
}

func (f *fakeAttendanceService) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	f.calls++
	if f.calls > 1 {
		return attendance.RecordResponse{}, attendance.ErrCooldownActive
	}
	return attendance.RecordResponse{ID: "rec-1", EmployeeName: *req.EmployeeName, EntryType: req.EntryType}, nil
}

type fakeReportService struct {
	report.ReportService
}

func (fakeReportService) ExportDaily(ctx context.Context, req report.ExportDailyRequest) (report.ExportFile, error) {
	return report.ExportFile{Filename: "staff-log-2025-03-04.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Employee\n")}, nil
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	return dashboard.DashboardResponse{Date: "2025-03-04"}, nil
}

type testEnv struct {
	router     *chi.Mux
	jwt        jwt.Service
	hub        *sse.Hub
	attendance *fakeAttendanceService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour, false)
	hub := sse.NewHub()
	att := &fakeAttendanceService{}

	router := NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		RecognizerKey:  testRecognizerKey,
	}, jwtService, Handlers{
		Auth:        NewAuthHandler(jwtService, fakeAuthService{}, nil, "http://localhost:5173", false),
		Admin:       NewAdminHandler(nil),
		Employee:    NewEmployeeHandler(nil, att),
		Attendance:  NewAttendanceHandler(att),
		Report:      NewReportHandler(fakeReportService{}),
		Dashboard:   NewDashboardHandler(fakeDashboardService{}),
		Settings:    NewSettingsHandler(nil),
		Recognition: NewRecognitionHandler(nil),
		Stream:      NewStreamHandler(jwtService, hub),
	})

	return testEnv{router: router, jwt: jwtService, hub: hub, attendance: att}
}

func (e testEnv) accessToken(t *testing.T, adminID string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken("user-1", "admin@example.com", adminID)
	require.NoError(t, err)
	return token
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"correct-horse"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.RefreshTokenCookieName {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh", refresh.Value)
	assert.True(t, refresh.HttpOnly)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleLoginNotConfigured(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+env.accessToken(t, ""))
	rec = env.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+env.accessToken(t, "admin-1"))
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2025-03-04", body["data"].(map[string]interface{})["date"])
}

func TestRefreshTokenCannotActAsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	refresh, _, err := env.jwt.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)

	assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)
}

func TestRecordAttendance_RecognizerKey(t *testing.T) {
	env := newTestEnv(t)
	payload := `{"employee_name":"Jane Doe","entry_type":"entry"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(payload))
	req.Header.Set(middleware.RecognizerKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(payload))
	req.Header.Set(middleware.RecognizerKeyHeader, testRecognizerKey)
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Jane Doe", decodeBody(t, rec)["data"].(map[string]interface{})["employee_name"])

	// Second hit inside the cooldown window
	req = httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(payload))
	req.Header.Set(middleware.RecognizerKeyHeader, testRecognizerKey)
	assert.Equal(t, http.StatusTooManyRequests, env.do(req).Code)
}

func TestRecordAttendance_AdminTokenAndValidation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(`{"entry_type":"lunch"}`))
	req.Header.Set("Authorization", "Bearer "+env.accessToken(t, "admin-1"))
	rec := env.do(req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decodeBody(t, rec)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "employee_id")
	assert.Contains(t, details, "entry_type")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/attendance", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)
}

func TestExportDaily_Download(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily/export?date=2025-03-04", nil)
	req.Header.Set("Authorization", "Bearer "+env.accessToken(t, "admin-1"))
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="staff-log-2025-03-04.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Employee\n", rec.Body.String())
}

func TestHeartbeat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStream(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/stream")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// An access token is not an SSE token
	resp, err = http.Get(server.URL + "/api/v1/stream?token=" + env.accessToken(t, "admin-1"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := env.jwt.GenerateSSEToken("user-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/stream?token="+token, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return name, data
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, sse.EventConnected, name)
	assert.Contains(t, data, `"user_id":"user-1"`)

	env.hub.Broadcast(sse.EventAttendanceChanged, map[string]string{"operation": "INSERT"})

	name, data = readEvent()
	assert.Equal(t, sse.EventAttendanceChanged, name)
	assert.JSONEq(t, `{"operation":"INSERT"}`, data)
}
