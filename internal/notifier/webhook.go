package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
)

// WebhookSink POSTs notification events as JSON to a configured URL, for
// forwarding to external channels (push gateways, chat bots).
type WebhookSink struct {
	url        string
	client     *http.Client
	logger     *log.Logger
	maxRetries int
	now        func() time.Time
}

func NewWebhookSink(url string, logger *log.Logger) *WebhookSink {
	return &WebhookSink{
		url:        url,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger.WithComponent(log.ComponentNotifier),
		maxRetries: 3,
		now:        time.Now,
	}
}

func (w *WebhookSink) Emit(ctx context.Context, title, body string) (core.NotificationEvent, error) {
	ev := core.NotificationEvent{Title: title, Body: body, Timestamp: w.now()}
	if err := w.sendWithRetry(ctx, ev); err != nil {
		return core.NotificationEvent{}, err
	}
	return ev, nil
}

func (w *WebhookSink) send(ctx context.Context, ev core.NotificationEvent) error {
	payload, err := json.Marshal(map[string]string{
		"title":     ev.Title,
		"body":      ev.Body,
		"timestamp": ev.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// sendWithRetry retries with exponential backoff; the context cancels the
// wait between attempts.
func (w *WebhookSink) sendWithRetry(ctx context.Context, ev core.NotificationEvent) error {
	var lastErr error
	for i := 0; i <= w.maxRetries; i++ {
		if err := w.send(ctx, ev); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			w.logger.WarnContext(ctx, "webhook send failed",
				log.FieldError, err, "attempt", i+1, "backoff", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d webhook attempts failed: %w", w.maxRetries+1, lastErr)
}
