package messaging

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"formatted brazilian", "(11) 98888-7777", "11988887777"},
		{"international prefix", "+55 11 98888-7777", "5511988887777"},
		{"already digits", "11988887777", "11988887777"},
		{"letters dropped", "tel: 11 9x8y8z", "11988"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestZAPIClientSendMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewZAPIClient("inst-1", "token-1", logger)
	client.delay = time.Millisecond

	result, err := client.SendMessage(context.Background(), "(11) 98888-7777", "Bom dia! Hoje é dia de check-in.")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if result.Phone != "11988887777" {
		t.Errorf("phone = %s, want normalized digits", result.Phone)
	}
	if !result.Delivered {
		t.Error("expected simulated delivery")
	}

	t.Run("empty phone", func(t *testing.T) {
		if _, err := client.SendMessage(context.Background(), "---", "oi"); err == nil {
			t.Error("expected error for phone with no digits")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		slow := NewZAPIClient("inst-1", "token-1", logger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := slow.SendMessage(ctx, "11988887777", "oi"); err == nil {
			t.Error("expected context error")
		}
	})
}
