// File: /services/email_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"globe-travel-api/config"
	"globe-travel-api/logging"
	"globe-travel-api/metrics"
)

// ErrCircuitOpen means recent SMTP failures tripped the breaker and the
// message was not attempted.
var ErrCircuitOpen = errors.New("email circuit open")

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// DeliveryResult describes one best-effort send. Callers log it; it never
// fails the request that triggered it.
type DeliveryResult struct {
	To       string
	Sent     bool
	Err      error
	Duration time.Duration
}

type EmailService struct {
	config *config.Config
	sender MailSender
	cb     *gobreaker.CircuitBreaker[struct{}]
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return NewEmailServiceWithSender(cfg, dialer)
}

func NewEmailServiceWithSender(cfg *config.Config, sender MailSender) *EmailService {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Email circuit state changed")
		},
	})

	return &EmailService{config: cfg, sender: sender, cb: cb}
}

// SendOTP mails a verification code. The result is informational only.
func (es *EmailService) SendOTP(email, name, code string) DeliveryResult {
	start := time.Now()
	result := DeliveryResult{To: email}

	_, err := es.cb.Execute(func() (struct{}, error) {
		return struct{}{}, es.sender.DialAndSend(es.buildOTPMessage(email, name, code))
	})
	result.Duration = time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result.Err = ErrCircuitOpen
		metrics.RecordEmail("skipped")
	case err != nil:
		result.Err = fmt.Errorf("failed to send email: %w", err)
		metrics.RecordEmail("failed")
	default:
		result.Sent = true
		metrics.RecordEmail("sent")
	}
	return result
}

func (es *EmailService) buildOTPMessage(email, name, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", es.config.FromEmail, es.config.FromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your OTP Verification Code")

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .otp-code { font-size: 32px; font-weight: bold; color: #667eea; letter-spacing: 5px; font-family: monospace; text-align: center; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Globe Travel</h1>
            <p>Email Verification</p>
        </div>
        <div class="content">
            <p>Hello %s,</p>
            <p>Please use the following code to verify your email address:</p>
            <div class="otp-code">%s</div>
            <p>This code will expire in 10 minutes.</p>
            <p>If you didn't request this code, please ignore this email.</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, name, code)

	textBody := fmt.Sprintf(`Hello %s,

Your Globe Travel verification code is: %s

This code will expire in 10 minutes.
If you didn't request this code, please ignore this email.
`, name, code)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
