package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"
)

// WhatsAppClient sends a text message to a phone number. Implementations
// report per-message success or failure.
type WhatsAppClient interface {
	SendMessage(ctx context.Context, phone, text string) (*SendResult, error)
}

// SendResult describes the outcome of a single dispatch
type SendResult struct {
	Phone     string    `json:"phone"`
	Delivered bool      `json:"delivered"`
	Detail    string    `json:"detail"`
	SentAt    time.Time `json:"sent_at"`
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ZAPIClient is a z-api shaped client. The real integration is out of scope;
// sends are simulated with a fixed short delay and always succeed.
type ZAPIClient struct {
	instance string
	token    string
	delay    time.Duration
	logger   *slog.Logger
}

func NewZAPIClient(instance, token string, logger *slog.Logger) *ZAPIClient {
	return &ZAPIClient{
		instance: instance,
		token:    token,
		delay:    500 * time.Millisecond,
		logger:   logger,
	}
}

func (c *ZAPIClient) SendMessage(ctx context.Context, phone, text string) (*SendResult, error) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.logger.Info("WhatsApp message simulated", "phone", digits, "length", len(text))

	return &SendResult{
		Phone:     digits,
		Delivered: true,
		Detail:    "Simulado",
		SentAt:    time.Now(),
	}, nil
}
