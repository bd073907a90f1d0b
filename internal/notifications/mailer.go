package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/config"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

// Mailer delivers the transactional emails of the marketplace over SendGrid.
// Every send is best-effort from the caller's point of view: services log
// failures and move on. With no API key configured the mailer is a no-op,
// which keeps local development working without credentials.
type Mailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewMailer builds a SendGrid-backed mailer from config. A missing API key
// yields a disabled mailer, not an error.
func NewMailer(cfg config.SendgridConfig) *Mailer {
	m := &Mailer{
		fromEmail: cfg.DefaultFrom,
		fromName:  cfg.FromName,
	}
	if cfg.APIKey != "" {
		m.client = sendgrid.NewSendClient(cfg.APIKey)
	}
	return m
}

// Enabled reports whether the mailer has a configured client.
func (m *Mailer) Enabled() bool {
	return m != nil && m.client != nil
}

func (m *Mailer) send(ctx context.Context, to, subject, plain, html string) error {
	if !m.Enabled() {
		return nil
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plain, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sendgrid send failed")
	}
	if response.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("sendgrid returned status %d", response.StatusCode))
	}
	return nil
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Welcome to AgriSphere"
	plain := fmt.Sprintf("Hi %s,\n\nYour AgriSphere account is ready. Complete your profile to unlock the marketplace.", name)
	return m.send(ctx, email, subject, plain, "")
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	subject := "Reset your AgriSphere password"
	plain := fmt.Sprintf("Hi %s,\n\nUse this token to reset your password within the next hour: %s", name, token)
	return m.send(ctx, email, subject, plain, "")
}

func (m *Mailer) SendOrderPlaced(ctx context.Context, email, name string, orderID uuid.UUID, total decimal.Decimal) error {
	subject := "Your AgriSphere order was placed"
	plain := fmt.Sprintf("Hi %s,\n\nOrder %s was placed for a total of %s. We'll let you know when payment is confirmed.",
		name, orderID, total.StringFixed(2))
	return m.send(ctx, email, subject, plain, "")
}

func (m *Mailer) SendPaymentReceived(ctx context.Context, email, name string, orderID uuid.UUID, amount decimal.Decimal) error {
	subject := "Payment received"
	plain := fmt.Sprintf("Hi %s,\n\nWe received your payment of %s for order %s. Your order is confirmed.",
		name, amount.StringFixed(2), orderID)
	return m.send(ctx, email, subject, plain, "")
}

func (m *Mailer) SendConsultationRequested(ctx context.Context, email, name, topic string) error {
	subject := "New consultation request"
	plain := fmt.Sprintf("Hi %s,\n\nA client requested a consultation about %q. Review it from your dashboard.", name, topic)
	return m.send(ctx, email, subject, plain, "")
}
