package email

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(t *testing.T, cfg config.SMTPConfig, failures int) (*emailServiceImpl, *[]sentMail, *int) {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	var sent []sentMail
	attempts := 0
	impl.backoff = func(int) time.Duration { return 0 }
	impl.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		if attempts <= failures {
			return errors.New("connection refused")
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return impl, &sent, &attempts
}

func TestSendLeaveDecision(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com", FromName: "EMS"}
	svc, sent, _ := newTestService(t, cfg, 0)

	err := svc.SendLeaveDecision("jane@example.com", LeaveDecision{
		EmployeeName: "Jane Doe",
		LeaveType:    "ANNUAL",
		StartDate:    "2024-03-04",
		EndDate:      "2024-03-08",
		Days:         5,
		Status:       "APPROVED",
		Note:         "Enjoy",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, []string{"jane@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Leave request APPROVED")
	assert.Contains(t, mail.msg, "Jane Doe")
	assert.Contains(t, mail.msg, "5 working days")
	assert.Contains(t, mail.msg, "Enjoy")
}

func TestSendPayslipRetries(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com", FromName: "EMS"}
	svc, sent, attempts := newTestService(t, cfg, 2)

	err := svc.SendPayslip("jane@example.com", Payslip{EmployeeName: "Jane", Period: "August 2024", NetSalary: "85000"})
	require.NoError(t, err)
	assert.Equal(t, 3, *attempts)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "85000")
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587}
	svc, _, attempts := newTestService(t, cfg, 10)

	err := svc.SendPayslip("jane@example.com", Payslip{})
	assert.Error(t, err)
	assert.Equal(t, maxRetries, *attempts)
}

func TestSendSkippedWithoutHost(t *testing.T) {
	svc, sent, attempts := newTestService(t, config.SMTPConfig{}, 0)

	require.NoError(t, svc.SendPayslip("jane@example.com", Payslip{}))
	assert.Empty(t, *sent)
	assert.Zero(t, *attempts)
}
