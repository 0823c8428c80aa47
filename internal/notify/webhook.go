// internal/notify/webhook.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PlaceholderURL is the template value shipped in config examples.
// A config still carrying it means "webhook not set up": delivery is
// disabled rather than treated as an error.
const PlaceholderURL = "YOUR_DISCORD_WEBHOOK_URL_HERE"

const userAgent = "chibichonk/1.0"

// Webhook delivers events to a Discord-compatible webhook endpoint.
// At-most-once: a failed send is returned to the caller for logging and
// never retried or queued.
type Webhook struct {
	url    string
	client *http.Client
	logger *log.Logger
	now    func() time.Time
}

// Dependencies allow test overrides for HTTP client, clock, and logging.
type Dependencies struct {
	HTTPClient *http.Client
	Logger     *log.Logger
	Now        func() time.Time
}

// NewWebhook builds a webhook notifier, or a Noop when the URL is empty or
// still the placeholder.
func NewWebhook(url string, deps Dependencies) Notifier {
	if url == "" || url == PlaceholderURL {
		return Noop{}
	}

	client := deps.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Webhook{
		url:    url,
		client: client,
		logger: logger,
		now:    now,
	}
}

func (w *Webhook) Notify(ctx context.Context, ev Event) error {
	// Nothing useful to say about a completely blank reading.
	if ev.Snapshot.Empty() {
		return nil
	}

	payload := webhookPayload{
		Content: ContentLine(ev),
		Embeds:  []embed{buildEmbed(ev, w.now().UTC().Format(time.RFC3339))},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	eventID := uuid.NewString()

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send (event=%s): %w", eventID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: event=%s status=%d: %w", eventID, resp.StatusCode, errDelivery)
	}

	w.logger.Printf("[%s] webhook delivered event=%s state_change=%t", ev.Printer, eventID, ev.StateChange)
	return nil
}

var errDelivery = errors.New("delivery rejected")
