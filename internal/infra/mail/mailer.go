package mail

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mailer delivers a plain-text message to a named recipient.
type Mailer interface {
	Send(ctx context.Context, recipientName, address, text string) error
}

// Config controls outbound mail.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Subject   string
	Signature string
	StartTLS  bool
	// Timeout bounds one whole SMTP exchange.
	Timeout time.Duration
}

// Envelope is a composed message ready for delivery.
type Envelope struct {
	To      string
	Subject string
	Text    string
}

// Compose wraps text in the greeting and signature used for every outbound mail.
func Compose(cfg Config, recipientName, address, text string) (Envelope, error) {
	address = strings.TrimSpace(address)
	if address == "" || !strings.Contains(address, "@") {
		return Envelope{}, fmt.Errorf("invalid recipient address %q", address)
	}
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = address
	}
	signature := cfg.Signature
	if signature == "" {
		signature = "FAQ Agent"
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "Email from your " + signature
	}
	body := fmt.Sprintf("Hola %s,\n\n%s\n\nSaludos,\n%s", name, strings.TrimSpace(text), signature)
	return Envelope{To: address, Subject: subject, Text: body}, nil
}
