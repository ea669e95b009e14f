package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

const defaultTimeout = 30 * time.Second

// SMTPMailer sends multipart text/HTML mail through an SMTP relay.
type SMTPMailer struct {
	cfg      Config
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg Config, logger *slog.Logger) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SMTPMailer{
		cfg:      cfg,
		markdown: goldmark.New(),
		logger:   logger.With("component", "mail.smtp"),
	}
}

// Send composes and delivers the message.
func (m *SMTPMailer) Send(ctx context.Context, recipientName, address, text string) error {
	env, err := Compose(m.cfg, recipientName, address, text)
	if err != nil {
		return err
	}
	msg, err := m.render(env)
	if err != nil {
		return err
	}
	if err := m.deliver(ctx, env.To, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.Info("email sent", "to", env.To)
	return nil
}

func (m *SMTPMailer) render(env Envelope) ([]byte, error) {
	var html bytes.Buffer
	if err := m.markdown.Convert([]byte(env.Text), &html); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	parts := []struct {
		contentType string
		content     []byte
	}{
		{contentType: "text/plain; charset=UTF-8", content: []byte(env.Text)},
		{contentType: "text/html; charset=UTF-8", content: html.Bytes()},
	}
	for _, p := range parts {
		w, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.content); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", env.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", env.Subject))
	fmt.Fprintf(&msg, "Message-ID: <%s@faq-agent>\r\n", uuid.NewString())
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", writer.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// the job context may carry no deadline of its own; the timeout above always does
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if m.cfg.StartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var _ Mailer = (*SMTPMailer)(nil)
