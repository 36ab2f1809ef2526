package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func TestWebhookNotifier_SendReminder(t *testing.T) {
	t.Run("posts the reminder as json", func(t *testing.T) {
		var got webhookPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("want POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("want application/json, got %q", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n := NewWebhookNotifier(srv.URL, testLogger())
		err := n.SendReminder(context.Background(), adapter.Reminder{
			SubscriptionID:   "sub-1",
			SubscriptionName: "Netflix",
			RenewalDate:      "2025-12-13",
			DaysBefore:       7,
			Cost:             "9.99",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if got.SubscriptionName != "Netflix" || got.RenewalDate != "2025-12-13" || got.DaysBefore != 7 {
			t.Fatalf("payload mismatch: %+v", got)
		}
		if got.Text == "" {
			t.Fatal("text should be rendered")
		}
	})

	t.Run("day-zero text says today", func(t *testing.T) {
		text := renderText(adapter.Reminder{SubscriptionName: "Spotify", RenewalDate: "2025-12-10", DaysBefore: 0, Cost: "5.99"})
		if text != "Spotify renews today (2025-12-10) for $5.99" {
			t.Fatalf("unexpected text: %q", text)
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		n := NewWebhookNotifier(srv.URL, testLogger())
		if err := n.SendReminder(context.Background(), adapter.Reminder{SubscriptionName: "X"}); err == nil {
			t.Fatal("want error on 502")
		}
	})
}
