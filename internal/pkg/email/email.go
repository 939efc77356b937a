package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// LeaveDecision is the content of a leave approval or rejection notice.
type LeaveDecision struct {
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	Days         int
	Status       string
	Note         string
}

// Payslip is the content of a salary paid notice. Amounts are preformatted.
type Payslip struct {
	EmployeeName string
	Period       string
	BaseSalary   string
	Allowances   string
	Deductions   string
	Tax          string
	NetSalary    string
}

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLeaveDecision(to string, data LeaveDecision) error
	SendPayslip(to string, data Payslip) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   func(attempt int) time.Duration
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
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

type leaveDecisionData struct {
	LeaveDecision
	Sender string
}

// SendLeaveDecision tells an employee that their leave was approved or rejected
func (s *emailServiceImpl) SendLeaveDecision(to string, data LeaveDecision) error {
	body, err := s.render("leave_decision.html", leaveDecisionData{LeaveDecision: data, Sender: s.cfg.FromName})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Leave request %s", data.Status)
	return s.sendHTML(to, subject, body)
}

type payslipData struct {
	Payslip
	Sender string
}

// SendPayslip tells an employee that a payroll was paid
func (s *emailServiceImpl) SendPayslip(to string, data Payslip) error {
	body, err := s.render("payslip.html", payslipData{Payslip: data, Sender: s.cfg.FromName})
	if err != nil {
		return err
	}
	return s.sendHTML(to, fmt.Sprintf("Payslip for %s", data.Period), body)
}

func (s *emailServiceImpl) render(name string, data any) (string, error) {
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

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
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

		if attempt < maxRetries {
			time.Sleep(s.backoff(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
