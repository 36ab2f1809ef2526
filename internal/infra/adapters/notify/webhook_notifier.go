package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier POSTs each reminder as JSON to a configured endpoint.
// Slack-style incoming webhooks and home-automation hooks both accept
// this shape.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *zerolog.Logger
}

func NewWebhookNotifier(url string, logger *zerolog.Logger) *WebhookNotifier {
	compLog := logger.With().Str("component", "WebhookNotifier").Logger()
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    &compLog,
	}
}

type webhookPayload struct {
	Text             string `json:"text"`
	SubscriptionID   string `json:"subscription_id"`
	SubscriptionName string `json:"subscription_name"`
	RenewalDate      string `json:"renewal_date"`
	DaysBefore       int    `json:"days_before"`
	Cost             string `json:"cost"`
}

func (n *WebhookNotifier) SendReminder(ctx context.Context, r adapter.Reminder) error {
	payload := webhookPayload{
		Text:             renderText(r),
		SubscriptionID:   r.SubscriptionID,
		SubscriptionName: r.SubscriptionName,
		RenewalDate:      r.RenewalDate,
		DaysBefore:       r.DaysBefore,
		Cost:             r.Cost,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook post: unexpected status %d", resp.StatusCode)
	}
	n.log.Debug().Str("subscription", r.SubscriptionName).Int("days_before", r.DaysBefore).Msg("reminder delivered")
	return nil
}

func renderText(r adapter.Reminder) string {
	if r.DaysBefore == 0 {
		return fmt.Sprintf("%s renews today (%s) for $%s", r.SubscriptionName, r.RenewalDate, r.Cost)
	}
	return fmt.Sprintf("%s renews in %d day(s) on %s for $%s", r.SubscriptionName, r.DaysBefore, r.RenewalDate, r.Cost)
}
