// Package langfuse talks to the Langfuse public API: advisory traces and
// user feedback scores go through the batched ingestion endpoint, prompts
// through the prompt management endpoint. Without credentials every call
// is a no-op.
package langfuse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ingestionPath = "/api/public/ingestion"
	sendTimeout   = 5 * time.Second

	DefaultBatchSize     = 20
	DefaultFlushInterval = 2 * time.Second
)

// Client records advisory traces and feedback scores.
type Client interface {
	IsEnabled() bool
	// CreateTrace queues a trace and returns its ID. Delivery happens in
	// the background, so send failures surface from Flush.
	CreateTrace(ctx context.Context, in TraceInput) (string, error)
	CreateScore(ctx context.Context, in ScoreInput) error
	// Flush ships everything queued and waits for in-flight batches.
	Flush(ctx context.Context) error
}

// TraceInput describes one advisory call.
type TraceInput struct {
	ID       string // generated when empty
	UserID   string
	Name     string // e.g. "advisory.chat"
	Input    any
	Output   any
	Tags     []string
	Metadata map[string]any
}

// ScoreInput attaches a user rating to a trace.
type ScoreInput struct {
	TraceID string
	Name    string
	Value   float64
	Comment string
}

type Config struct {
	BaseURL     string
	PublicKey   string
	SecretKey   string
	Environment string
	Logger      *zap.Logger

	// BatchSize events trigger an immediate send; smaller queues wait for
	// FlushInterval. Zero values take the defaults.
	BatchSize     int
	FlushInterval time.Duration
	HTTPClient    *http.Client
}

// disabledReason names the first missing credential, or "" when complete.
func (c Config) disabledReason() string {
	switch {
	case c.BaseURL == "":
		return "LANGFUSE_BASE_URL is empty"
	case c.PublicKey == "":
		return "LANGFUSE_PUBLIC_KEY is empty"
	case c.SecretKey == "":
		return "LANGFUSE_SECRET_KEY is empty"
	}
	return ""
}

type disabled struct{}

func (disabled) IsEnabled() bool { return false }
func (disabled) CreateTrace(context.Context, TraceInput) (string, error) { return "", nil }
func (disabled) CreateScore(context.Context, ScoreInput) error { return nil }
func (disabled) Flush(context.Context) error { return nil }

// ingester buffers events and posts them in batches.
type ingester struct {
	endpoint    string
	publicKey   string
	secretKey   string
	environment string
	batchSize   int
	interval    time.Duration
	httpClient  *http.Client
	logger      *zap.Logger

	mu      sync.Mutex
	queue   []event
	timer   *time.Timer
	failed  error
	sending sync.WaitGroup
}

// NewClient returns an ingesting client, or a no-op one when any
// credential is missing.
func NewClient(cfg Config) Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "langfuse"))

	if reason := cfg.disabledReason(); reason != "" {
		logger.Info("disabled", zap.String("reason", reason))
		return disabled{}
	}
	endpoint, err := url.JoinPath(cfg.BaseURL, ingestionPath)
	if err != nil {
		logger.Warn("disabled", zap.String("reason", "invalid LANGFUSE_BASE_URL"), zap.Error(err))
		return disabled{}
	}

	c := &ingester{
		endpoint:    endpoint,
		publicKey:   cfg.PublicKey,
		secretKey:   cfg.SecretKey,
		environment: cfg.Environment,
		batchSize:   cfg.BatchSize,
		interval:    cfg.FlushInterval,
		httpClient:  cfg.HTTPClient,
		logger:      logger,
	}
	if c.batchSize <= 0 {
		c.batchSize = DefaultBatchSize
	}
	if c.interval <= 0 {
		c.interval = DefaultFlushInterval
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger.Info("enabled", zap.String("base_url", cfg.BaseURL), zap.String("env", cfg.Environment))
	return c
}

func (c *ingester) IsEnabled() bool { return true }

func (c *ingester) CreateTrace(ctx context.Context, in TraceInput) (string, error) {
	traceID := in.ID
	if traceID == "" {
		traceID = uuid.NewString()
	}

	metadata := make(map[string]any, len(in.Metadata)+1)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	if c.environment != "" {
		metadata["environment"] = c.environment
	}

	c.enqueue(newEvent("trace-create", traceBody{
		ID:       traceID,
		Name:     in.Name,
		UserID:   in.UserID,
		Input:    in.Input,
		Output:   in.Output,
		Tags:     in.Tags,
		Metadata: metadata,
	}))
	return traceID, nil
}

func (c *ingester) CreateScore(ctx context.Context, in ScoreInput) error {
	if in.TraceID == "" {
		return errors.New("score needs a trace id")
	}
	c.enqueue(newEvent("score-create", scoreBody{
		ID:      uuid.NewString(),
		TraceID: in.TraceID,
		Name:    in.Name,
		Value:   in.Value,
		Comment: in.Comment,
	}))
	return nil
}

func (c *ingester) Flush(ctx context.Context) error {
	c.drain()

	done := make(chan struct{})
	go func() {
		c.sending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.failed
	c.failed = nil
	return err
}

func (c *ingester) enqueue(e event) {
	c.mu.Lock()
	c.queue = append(c.queue, e)
	var batch []event
	if len(c.queue) >= c.batchSize {
		batch = c.takeLocked()
	} else if c.timer == nil {
		c.timer = time.AfterFunc(c.interval, c.drain)
	}
	c.mu.Unlock()

	if batch != nil {
		c.send(batch)
	}
}

// drain sends whatever is queued right now.
func (c *ingester) drain() {
	c.mu.Lock()
	batch := c.takeLocked()
	c.mu.Unlock()

	if len(batch) > 0 {
		c.send(batch)
	}
}

func (c *ingester) takeLocked() []event {
	batch := c.queue
	c.queue = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	return batch
}

func (c *ingester) send(batch []event) {
	c.sending.Add(1)
	go func() {
		defer c.sending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := c.post(ctx, batch); err != nil {
			c.logger.Warn("batch send failed", zap.Int("events", len(batch)), zap.Error(err))
			c.mu.Lock()
			c.failed = errors.Join(c.failed, err)
			c.mu.Unlock()
		}
	}()
}

func (c *ingester) post(ctx context.Context, batch []event) error {
	body, err := json.Marshal(batchPayload{Batch: batch})
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.publicKey, c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ingestion failed with status %d", resp.StatusCode)
	}

	// 207 carries per-event outcomes
	var result ingestionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil
	}
	if len(result.Errors) > 0 {
		first := result.Errors[0]
		return fmt.Errorf("%d of %d events rejected, first %s: %d %s",
			len(result.Errors), len(batch), first.ID, first.Status, first.Message)
	}
	return nil
}

type batchPayload struct {
	Batch []event `json:"batch"`
}

type event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Body      any    `json:"body"`
}

func newEvent(kind string, body any) event {
	return event{
		ID:        uuid.NewString(),
		Type:      kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Body:      body,
	}
}

type traceBody struct {
	ID       string         `json:"id"`
	Name     string         `json:"name,omitempty"`
	UserID   string         `json:"userId,omitempty"`
	Input    any            `json:"input,omitempty"`
	Output   any            `json:"output,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type scoreBody struct {
	ID      string  `json:"id"`
	TraceID string  `json:"traceId"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Comment string  `json:"comment,omitempty"`
}

type ingestionResult struct {
	Errors []struct {
		ID      string `json:"id"`
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"errors"`
}
