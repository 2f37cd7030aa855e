package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/Esayas077/Backend/internal/apperr"
)

// Mailer dispatches password-reset codes to users. The reset flow persists
// the code before dispatch; a send failure is surfaced but never rolls the
// stored code back.
type Mailer interface {
	SendResetCode(to, code string) error
}

// SMTPMailer sends mail through an SMTP relay using the EMAIL_USER /
// EMAIL_PASS credentials (Gmail by default, matching SMTP_HOST / SMTP_PORT
// when set).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from environment configuration.
func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	user := os.Getenv("EMAIL_USER")
	pass := os.Getenv("EMAIL_PASS")

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

func (m *SMTPMailer) SendResetCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Password Reset OTP")
	msg.SetBody("text/plain", fmt.Sprintf("Your OTP is %s. It expires in 5 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return apperr.Wrap(apperr.KindDelivery, "Failed to send OTP", err)
	}
	return nil
}
