package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"

	"pickem-app-go/logging"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// EmailService sends league mail over SMTP. With an empty configuration it
// reports unconfigured and callers fall back to logging instead.
type EmailService struct {
	config EmailConfig
	logger *logging.Logger
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		logger: logging.WithPrefix("EmailService"),
	}
}

// IsConfigured reports whether enough SMTP settings are present to send.
func (e *EmailService) IsConfigured() bool {
	return e.config.SMTPHost != "" &&
		e.config.SMTPPort != "" &&
		e.config.SMTPUsername != "" &&
		e.config.SMTPPassword != "" &&
		e.config.FromEmail != ""
}

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Password Reset</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; background-color: #f4f4f4; }
        .container { max-width: 600px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #3b82f6; color: white; text-decoration: none; border-radius: 4px; font-weight: bold; }
        .footer { font-size: 0.9em; color: #666; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Pick'em League</h1>
        <h2>Password Reset Request</h2>
        <p>Hello {{.Name}},</p>
        <p>We received a request to reset the password for your league account. If that was you, click below:</p>
        <p style="text-align: center; margin: 30px 0;">
            <a href="{{.ResetURL}}" class="button">Reset Your Password</a>
        </p>
        <p>The link expires in 24 hours. If you didn't ask for a reset, ignore this email and nothing changes.</p>
        <p>If the button doesn't work, paste this link into your browser:</p>
        <p style="word-break: break-all; font-family: monospace;">{{.ResetURL}}</p>
        <div class="footer">
            <p>Sent to {{.Email}} because a password reset was requested for your league account.</p>
        </div>
    </div>
</body>
</html>`

const resetTextTemplate = `Pick'em League - Password Reset

Hello {{.Name}},

We received a request to reset the password for your league account.

Reset your password here:
{{.ResetURL}}

The link expires in 24 hours. If you didn't ask for a reset, ignore this
email and nothing changes.

Sent to {{.Email}} because a password reset was requested for your league
account.
`

// SendPasswordResetEmail sends the reset link for an outstanding token.
func (e *EmailService) SendPasswordResetEmail(toEmail, toName, resetToken, baseURL string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", baseURL, resetToken)

	data := struct {
		Name     string
		Email    string
		ResetURL string
	}{
		Name:     toName,
		Email:    toEmail,
		ResetURL: resetURL,
	}

	htmlBody, err := renderTemplate("html", resetHTMLTemplate, data)
	if err != nil {
		return err
	}
	textBody, err := renderTemplate("text", resetTextTemplate, data)
	if err != nil {
		return err
	}

	if err := e.sendEmail(toEmail, "Pick'em League - Password Reset", textBody, htmlBody); err != nil {
		return err
	}

	e.logger.Infof("Password reset email sent to %s", toEmail)
	return nil
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s email template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email template: %w", name, err)
	}
	return buf.String(), nil
}

// sendEmail delivers a multipart text+HTML message over SMTP, upgrading to
// TLS when the server offers STARTTLS.
func (e *EmailService) sendEmail(to, subject, textBody, htmlBody string) error {
	addr := net.JoinHostPort(e.config.SMTPHost, e.config.SMTPPort)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: e.config.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(e.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	defer writer.Close()

	from := fmt.Sprintf("%s <%s>", e.config.FromName, e.config.FromEmail)
	boundary := "pickem-mail-boundary"

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: multipart/alternative; boundary=%q\r\n"+
		"\r\n"+
		"--%s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n"+
		"--%s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n"+
		"--%s--\r\n",
		from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	return nil
}
