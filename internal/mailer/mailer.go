// Package mailer отправляет письма покупателям и пользователям.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"

	"github.com/wneessen/go-mail"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	log    *slog.Logger
	client *mail.Client
	from   string
}

func NewSMTPMailer(log *slog.Logger, host string, port int, username, password, from string) (*SMTPMailer, error) {
	const op = "mailer.NewSMTPMailer"

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SMTPMailer{log: log, client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	const op = "mailer.SMTPMailer.Send"

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("%s: from: %w", op, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%s: to: %w", op, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.log.Debug("mail sent", slog.String("op", op), slog.String("to", sl.MaskEmail(to)))

	return nil
}

// NoopMailer только пишет в лог, используется когда почта отключена.
type NoopMailer struct {
	log *slog.Logger
}

func NewNoopMailer(log *slog.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

func (m *NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info("mail disabled, message dropped",
		slog.String("to", sl.MaskEmail(to)),
		slog.String("subject", subject),
	)
	return nil
}

var (
	orderConfirmationTmpl = template.Must(template.New("order").Parse(
		`Hello {{.CustomerName}},

thank you for your order {{.ID}}.
{{range .Items}}
  {{.ProductName}} x {{.Quantity}}: {{.LineTotal.StringFixed 2}}{{end}}

Total: {{.TotalAmount.StringFixed 2}}
Shipping to: {{.ShippingAddress}}, {{.ShippingPostal}} {{.ShippingCity}}, {{.ShippingCountry}}
`))

	passwordResetTmpl = template.Must(template.New("reset").Parse(
		`Hello {{.Username}},

use the link below to set a new password. The link is valid for {{.TTL}}.

{{.Link}}

If you did not request a password reset, ignore this message.
`))
)

func OrderConfirmation(order models.Order) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", "", fmt.Errorf("mailer.OrderConfirmation: %w", err)
	}

	return "Order confirmation " + order.ID.String(), buf.String(), nil
}

type PasswordResetData struct {
	Username string
	Link     string
	TTL      string
}

func PasswordReset(data PasswordResetData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("mailer.PasswordReset: %w", err)
	}

	return "Password reset", buf.String(), nil
}
