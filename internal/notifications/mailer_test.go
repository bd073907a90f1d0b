package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/config"
)

func TestMailerDisabledWithoutAPIKey(t *testing.T) {
	t.Parallel()

	m := NewMailer(config.SendgridConfig{DefaultFrom: "noreply@agrisphere.example", FromName: "AgriSphere"})
	if m.Enabled() {
		t.Fatalf("expected mailer disabled without api key")
	}

	// Every send is a silent no-op when disabled.
	ctx := context.Background()
	if err := m.SendWelcome(ctx, "user@example.com", "User"); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if err := m.SendPasswordReset(ctx, "user@example.com", "User", "token"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := m.SendOrderPlaced(ctx, "user@example.com", "User", uuid.New(), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := m.SendPaymentReceived(ctx, "user@example.com", "User", uuid.New(), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := m.SendConsultationRequested(ctx, "user@example.com", "User", "soil"); err != nil {
		t.Fatalf("consultation: %v", err)
	}
}

func TestMailerEnabledWithAPIKey(t *testing.T) {
	t.Parallel()

	m := NewMailer(config.SendgridConfig{APIKey: "SG.test", DefaultFrom: "noreply@agrisphere.example"})
	if !m.Enabled() {
		t.Fatalf("expected mailer enabled with api key")
	}
}
