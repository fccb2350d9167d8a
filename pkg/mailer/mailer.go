// Package mailer sends offer-letter emails over SMTP. Credentials are
// injected through Config; nothing here reads ambient state.
package mailer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Message is one outbound email with an optional PDF attachment.
type Message struct {
	ToName         string
	ToAddress      string
	Subject        string
	HTMLBody       string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers a single message. Implementations must honour ctx
// cancellation and deadlines.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config carries SMTP transport settings.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BCCAddress  string
}

// SMTPMailer sends mail through a single SMTP endpoint.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer constructs an SMTP mailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send composes and transmits one message. The caller bounds the attempt
// with a context deadline; a timeout surfaces as this recipient's failure.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.ToAddress == "" {
		return fmt.Errorf("recipient address required")
	}

	message := mail.NewMsg()
	if err := message.FromFormat(m.cfg.FromName, m.cfg.FromAddress); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := message.AddToFormat(msg.ToName, msg.ToAddress); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if m.cfg.BCCAddress != "" {
		if err := message.Bcc(m.cfg.BCCAddress); err != nil {
			return fmt.Errorf("set bcc: %w", err)
		}
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if len(msg.Attachment) > 0 {
		if err := message.AttachReader(msg.AttachmentName, bytes.NewReader(msg.Attachment)); err != nil {
			return fmt.Errorf("attach document: %w", err)
		}
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send to %s: %w", msg.ToAddress, err)
	}
	return nil
}
