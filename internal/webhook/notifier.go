// Package webhook notifies the frontend that cached pages need
// revalidation after catalog mutations.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Notifier posts revalidation events to a configured endpoint. A
// Notifier with an empty URL is a no-op, so callers never have to
// branch on whether webhooks are configured.
type Notifier struct {
	url    string
	secret string
	client *http.Client
	logger zerolog.Logger
}

type event struct {
	Service string `json:"service"`
	Method  string `json:"method"`
}

func NewNotifier(url, secret string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Notify posts a service/method event. Failures are logged only;
// a down frontend must not fail the mutation that triggered it.
func (n *Notifier) Notify(ctx context.Context, service, method string) {
	if n == nil || n.url == "" {
		return
	}

	body, err := json.Marshal(event{Service: service, Method: method})
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to encode webhook payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("Authorization", "Bearer "+n.secret)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Str("service", service).Str("method", method).Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn().Int("status", resp.StatusCode).Str("service", service).Str("method", method).Msg("webhook endpoint returned error")
	}
}
