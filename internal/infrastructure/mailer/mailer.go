// Package mailer sends the platform's transactional email: registration
// OTPs, password-reset links, and interview notices. Send failures are
// returned to the caller and never abort the mutation they accompany.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"campus-hire/internal/config"
)

type Mailer interface {
	SendVerificationOTP(ctx context.Context, email, name, code string) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
	SendInterviewNotice(ctx context.Context, email, name, jobTitle string, date time.Time, link string) error
	SendAdminInvite(ctx context.Context, email, acceptURL string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerificationOTP(ctx context.Context, email, name, code string) error {
	var body bytes.Buffer
	if err := verificationTmpl.Execute(&body, map[string]string{
		"Name": name,
		"Code": code,
	}); err != nil {
		return err
	}
	return m.send(ctx, email, "Verify your email address", body.String())
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	var body bytes.Buffer
	if err := passwordResetTmpl.Execute(&body, map[string]string{
		"ResetURL": resetURL,
	}); err != nil {
		return err
	}
	return m.send(ctx, email, "Password reset", body.String())
}

func (m *SMTPMailer) SendInterviewNotice(ctx context.Context, email, name, jobTitle string, date time.Time, link string) error {
	var body bytes.Buffer
	if err := interviewTmpl.Execute(&body, map[string]string{
		"Name":     name,
		"JobTitle": jobTitle,
		"Date":     date.Format("Mon, 02 Jan 2006 15:04 MST"),
		"Link":     link,
	}); err != nil {
		return err
	}
	return m.send(ctx, email, fmt.Sprintf("Interview scheduled for %s", jobTitle), body.String())
}

func (m *SMTPMailer) SendAdminInvite(ctx context.Context, email, acceptURL string) error {
	var body bytes.Buffer
	if err := adminInviteTmpl.Execute(&body, map[string]string{
		"AcceptURL": acceptURL,
	}); err != nil {
		return err
	}
	return m.send(ctx, email, "You have been invited as an administrator", body.String())
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.From)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}

var _ Mailer = (*SMTPMailer)(nil)
