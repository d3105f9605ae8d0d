package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendAdminWelcome(to, name, loginURL string) error
	SendDailySummary(to string, digest DailyDigest) error
}

// DailyDigest is the end-of-day attendance summary sent to admins.
type DailyDigest struct {
	Date       string
	Employees  int
	Present    int
	Absent     int
	Late       int
	UnderHours int
	Rows       []DigestRow
}

type DigestRow struct {
	Name      string
	EntryTime string
	ExitTime  string
	Hours     string
	Status    string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

type adminWelcomeEmailData struct {
	Name     string
	Email    string
	LoginURL string
}

// SendAdminWelcome tells a newly created admin how to sign in
func (s *emailServiceImpl) SendAdminWelcome(to, name, loginURL string) error {
	body, err := s.render("admin_welcome.html", adminWelcomeEmailData{
		Name:     name,
		Email:    to,
		LoginURL: loginURL,
	})
	if err != nil {
		return err
	}

	return s.sendHTML(to, "Your Face Attendance admin account", body)
}

// SendDailySummary sends the end-of-day attendance digest
func (s *emailServiceImpl) SendDailySummary(to string, digest DailyDigest) error {
	body, err := s.render("daily_summary.html", digest)
	if err != nil {
		return err
	}

	return s.sendHTML(to, fmt.Sprintf("Attendance summary %s", digest.Date), body)
}

func (s *emailServiceImpl) render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// 1s, 2s between attempts
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
