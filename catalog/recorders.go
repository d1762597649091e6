package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/randalmurphal/flowstore/artifact"
)

// =============================================================================
// LogRecorder
// =============================================================================

// LogRecorder logs materializations using slog.
type LogRecorder struct {
	Logger *slog.Logger
}

// NewLogRecorder creates a recorder that logs to the given logger.
// If logger is nil, uses the default slog logger.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRecorder{Logger: logger}
}

// Record implements Recorder.
func (r *LogRecorder) Record(ctx context.Context, m artifact.Materialization) error {
	r.Logger.InfoContext(ctx, "asset materialized",
		"asset_key", m.AssetKey.String(),
		"path", m.Path,
		"run_id", m.RunID,
		"id", m.ID,
	)
	return nil
}

// =============================================================================
// MultiRecorder
// =============================================================================

// MultiRecorder sends records to several recorders.
type MultiRecorder struct {
	Recorders []Recorder
	Logger    *slog.Logger
}

// NewMultiRecorder creates a recorder that fans out to recorders.
// A failing recorder does not stop the others; the last error is returned.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{
		Recorders: recorders,
		Logger:    slog.Default(),
	}
}

// Record implements Recorder.
func (r *MultiRecorder) Record(ctx context.Context, m artifact.Materialization) error {
	var lastErr error
	for _, rec := range r.Recorders {
		if err := rec.Record(ctx, m); err != nil {
			lastErr = err
			if r.Logger != nil {
				r.Logger.Warn("catalog recorder failed",
					"error", err,
					"asset_key", m.AssetKey.String(),
				)
			}
		}
	}
	return lastErr
}

// =============================================================================
// NopRecorder
// =============================================================================

// NopRecorder discards all records.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, artifact.Materialization) error {
	return nil
}

// =============================================================================
// MemoryRecorder
// =============================================================================

// MemoryRecorder keeps records in memory. Safe for concurrent use.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records []artifact.Materialization
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(_ context.Context, m artifact.Materialization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, copyRecord(m))
	return nil
}

// Records returns a snapshot of every record in arrival order.
func (r *MemoryRecorder) Records() []artifact.Materialization {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]artifact.Materialization, len(r.records))
	for i, m := range r.records {
		out[i] = copyRecord(m)
	}
	return out
}

// ForAsset returns the records for key in arrival order.
func (r *MemoryRecorder) ForAsset(key artifact.AssetKey) []artifact.Materialization {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []artifact.Materialization
	for _, m := range r.records {
		if m.AssetKey.Equal(key) {
			out = append(out, copyRecord(m))
		}
	}
	return out
}

func copyRecord(m artifact.Materialization) artifact.Materialization {
	m.AssetKey = append(artifact.AssetKey(nil), m.AssetKey...)
	return m
}

// =============================================================================
// WebhookRecorder
// =============================================================================

// WebhookRecorder POSTs each record as JSON to an HTTP endpoint.
type WebhookRecorder struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// NewWebhookRecorder creates a webhook recorder.
func NewWebhookRecorder(url string, headers map[string]string) *WebhookRecorder {
	return &WebhookRecorder{
		URL:     url,
		Headers: headers,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Record implements Recorder.
func (r *WebhookRecorder) Record(ctx context.Context, m artifact.Materialization) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal materialization: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	return nil
}
