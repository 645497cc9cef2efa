// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/william-rossi/pontocarro-api/internal/config"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

// Mailer delivers the password-reset message.
type Mailer interface {
	SendPasswordReset(to, resetToken string) error
}

// SMTPMailer sends through a gomail dialer with a small fixed retry: 3
// attempts with increasing delay, abandoned immediately on authentication
// failures since those never recover by retrying.
type SMTPMailer struct {
	dialer       *gomail.Dialer
	from         string
	resetURLBase string
	log          *logger.Logger
}

const mailAttempts = 3

func NewSMTPMailer(cfg *config.Config, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:       gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:         cfg.MailFrom,
		resetURLBase: strings.TrimRight(cfg.ResetURLBase, "/"),
		log:          log,
	}
}

// SendPasswordReset emails the reset link containing the opaque token.
func (m *SMTPMailer) SendPasswordReset(to, resetToken string) error {
	resetURL := fmt.Sprintf("%s/%s", m.resetURLBase, resetToken)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Redefinição de senha - PontoCarro")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Recebemos uma solicitação para redefinir sua senha.</p>"+
			"<p><a href=%q>Clique aqui para criar uma nova senha</a></p>"+
			"<p>O link expira em 1 hora. Se você não solicitou, ignore este e-mail.</p>",
		resetURL,
	))

	var lastErr error
	for attempt := 1; attempt <= mailAttempts; attempt++ {
		lastErr = m.dialer.DialAndSend(msg)
		if lastErr == nil {
			return nil
		}
		if isAuthError(lastErr) {
			m.log.Errorf("mail auth failure, not retrying: %v", lastErr)
			return lastErr
		}
		m.log.Warnf("mail send attempt %d/%d failed: %v", attempt, mailAttempts, lastErr)
		if attempt < mailAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return lastErr
}

// isAuthError detects SMTP authentication-class failures (e.g. 535).
func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "535") || strings.Contains(msg, "auth")
}
