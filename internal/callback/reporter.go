// Package callback posts search completions to an external HTTP endpoint.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

const collectorName = "unifi-search"

// Reporter sends a completion callback for every finished search.
type Reporter struct {
	completeURL string
	apiKey      string
	logger      *zap.SugaredLogger
	client      *http.Client
	sequence    int64 // Monotonic counter for idempotency
}

// Completion is the callback payload. It never carries credentials.
type Completion struct {
	SearchID     string        `json:"search_id"`
	Collector    string        `json:"collector"`
	Sequence     int           `json:"sequence"`
	Status       string        `json:"status"` // found, not_found, cancelled, failed
	TargetMAC    string        `json:"target_mac"`
	ServerURL    string        `json:"server_url"`
	Device       *unifi.Device `json:"device,omitempty"`
	DeviceLabel  string        `json:"device_label,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	DurationMS   int64         `json:"duration_ms"`
	Timestamp    string        `json:"timestamp"`
}

// NewReporter creates a new callback reporter.
func NewReporter(completeURL, apiKey string, timeout time.Duration, logger *zap.SugaredLogger) *Reporter {
	return &Reporter{
		completeURL: completeURL,
		apiKey:      apiKey,
		logger:      logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the reporter in logs and metrics.
func (r *Reporter) Name() string { return "callback" }

// SearchCompleted posts the completion of rec.
func (r *Reporter) SearchCompleted(ctx context.Context, rec search.Record) error {
	seq := atomic.AddInt64(&r.sequence, 1)

	payload := Completion{
		SearchID:   rec.ID,
		Collector:  collectorName,
		Sequence:   int(seq),
		Status:     rec.Outcome.Kind.String(),
		TargetMAC:  rec.TargetMAC,
		ServerURL:  rec.ServerURL,
		Device:     rec.Outcome.Device,
		ErrorKind:  rec.Outcome.ErrorKind(),
		DurationMS: rec.Duration().Milliseconds(),
		Timestamp:  rec.FinishedAt.UTC().Format(time.RFC3339),
	}

	if rec.Outcome.Device != nil {
		payload.DeviceLabel = rec.Outcome.Device.Label()
	}

	if rec.Outcome.Err != nil {
		payload.ErrorMessage = rec.Outcome.Err.Error()
	}

	return r.sendCallback(ctx, r.completeURL, payload)
}

func (r *Reporter) sendCallback(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-Internal-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warnw("Callback failed", "url", url, "error", err)
		return fmt.Errorf("callback request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		r.logger.Warnw("Callback returned error", "url", url, "status", resp.StatusCode)
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}

	r.logger.Debugw("Callback sent", "url", url, "status", resp.StatusCode)

	return nil
}
