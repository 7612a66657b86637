package email

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/models"
)

// Attachment is a binary part attached to an outgoing message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Sender delivers a composed message over SMTP. It never mutates campaign
// or recipient state and never retries; retry policy belongs to callers.
type Sender interface {
	Send(cfg *models.SMTPConfig, to, subject, htmlBody string, attachments []Attachment) error
}

// Options holds process-level transport settings
type Options struct {
	Timeout time.Duration
	// AllowInsecureTLS disables certificate verification. Keep off outside
	// of local relays with self-signed certificates.
	AllowInsecureTLS bool
}

// DefaultOptions returns default transport settings
func DefaultOptions() *Options {
	return &Options{
		Timeout: 30 * time.Second,
	}
}

type smtpSender struct {
	opts *Options
}

// NewSender creates an SMTP sender
func NewSender(opts *Options) Sender {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &smtpSender{opts: opts}
}

// Send composes the MIME message and transmits it. Any connection,
// authentication or protocol failure comes back as a TransportError.
func (s *smtpSender) Send(cfg *models.SMTPConfig, to, subject, htmlBody string, attachments []Attachment) error {
	message := buildMessage(cfg.FromEmail, to, subject, htmlBody, attachments)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	implicitTLS, startTLS := tlsPolicy(cfg.Port)

	tlsConfig := &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: s.opts.AllowInsecureTLS,
	}

	client, err := s.dial(addr, implicitTLS, tlsConfig)
	if err != nil {
		return &apperrors.TransportError{Err: fmt.Errorf("failed to connect to %s: %w", addr, err)}
	}
	defer client.Close()

	if startTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return &apperrors.TransportError{Err: fmt.Errorf("failed to start TLS: %w", err)}
		}
	}

	if cfg.Username != "" {
		auth := smtp.PlainAuth("", cfg.Username, normalizeSecret(cfg.Password), cfg.Host)
		if err := client.Auth(auth); err != nil {
			return &apperrors.TransportError{Err: fmt.Errorf("authentication failed: %w", err)}
		}
	}

	if err := client.Mail(cfg.FromEmail); err != nil {
		return &apperrors.TransportError{Err: fmt.Errorf("failed to set sender: %w", err)}
	}
	if err := client.Rcpt(to); err != nil {
		return &apperrors.TransportError{Err: fmt.Errorf("failed to set recipient %s: %w", to, err)}
	}

	writer, err := client.Data()
	if err != nil {
		return &apperrors.TransportError{Err: fmt.Errorf("failed to start data transmission: %w", err)}
	}
	if _, err := writer.Write(message); err != nil {
		writer.Close()
		return &apperrors.TransportError{Err: fmt.Errorf("failed to write message data: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return &apperrors.TransportError{Err: fmt.Errorf("failed to finish data transmission: %w", err)}
	}

	return client.Quit()
}

// dial opens the connection, wrapping it in TLS from the start for
// implicit-TLS ports
func (s *smtpSender) dial(addr string, implicitTLS bool, tlsConfig *tls.Config) (*smtp.Client, error) {
	conn, err := net.DialTimeout("tcp", addr, s.opts.Timeout)
	if err != nil {
		return nil, err
	}
	conn.SetDeadline(time.Now().Add(s.opts.Timeout))

	if implicitTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	host, _, _ := net.SplitHostPort(addr)
	return smtp.NewClient(conn, host)
}

// tlsPolicy maps a port to its connection security mode: 465 is TLS from
// connection start, 587 is plaintext upgraded via STARTTLS, anything else
// stays plaintext for local and test relays.
func tlsPolicy(port int) (implicitTLS, startTLS bool) {
	switch port {
	case 465:
		return true, false
	case 587:
		return false, true
	default:
		return false, false
	}
}

// normalizeSecret strips whitespace from stored credentials. App passwords
// are often copied with formatting spaces that SMTP servers reject.
func normalizeSecret(password string) string {
	return strings.ReplaceAll(password, " ", "")
}

// buildMessage composes the wire-format MIME message: a single HTML part
// when there are no attachments, multipart/mixed with base64 binary parts
// otherwise.
func buildMessage(from, to, subject, htmlBody string, attachments []Attachment) []byte {
	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
		msg.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
		msg.WriteString(htmlBody)
		msg.WriteString("\r\n")
		return msg.Bytes()
	}

	boundary := fmt.Sprintf("mix_%d", time.Now().UnixNano())
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", boundary))

	// HTML part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n\r\n")

	for _, attachment := range attachments {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", attachment.Filename))
		msg.WriteString(wrapBase64(attachment.Data))
		msg.WriteString("\r\n\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.Bytes()
}

// wrapBase64 encodes data and folds it to 76-character lines per RFC 2045
func wrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)

	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}
