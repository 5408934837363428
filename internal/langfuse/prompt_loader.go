package langfuse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	promptsPath   = "/api/public/v2/prompts"
	promptTimeout = 5 * time.Second
)

// PromptLoaderConfig describes where advisory prompts are fetched from and
// cached.
type PromptLoaderConfig struct {
	BaseURL   string
	PublicKey string
	SecretKey string

	PromptLabel string
	// CacheDir keeps the last fetched text of each prompt as <name>.tmpl.
	CacheDir   string
	HTTPClient *http.Client
}

var (
	errNotConfigured = errors.New("langfuse not configured")
	// ErrPromptUnavailable means neither Langfuse nor the cache had the prompt.
	ErrPromptUnavailable = errors.New("prompt unavailable")
)

// Prompt is one version of a managed prompt.
type Prompt struct {
	Name    string
	Version int
	Text    string
	Cached  bool
}

// PromptLoader reads advisory prompt templates from Langfuse prompt
// management, keeping a disk copy for when Langfuse is unreachable.
type PromptLoader struct {
	cfg    PromptLoaderConfig
	cache  promptCache
	http   *http.Client
	logger *zap.Logger
}

func NewPromptLoader(cfg PromptLoaderConfig, logger *zap.Logger) *PromptLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PromptLoader{
		cfg:    cfg,
		cache:  promptCache{dir: cfg.CacheDir},
		http:   client,
		logger: logger.With(zap.String("component", "langfuse")),
	}
}

// Load returns the prompt text, satisfying the advisory prompt source.
func (l *PromptLoader) Load(ctx context.Context, name string) (string, error) {
	p, err := l.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// Fetch asks Langfuse first and refreshes the cache on success. Any remote
// failure falls back to the cached copy.
func (l *PromptLoader) Fetch(ctx context.Context, name string) (Prompt, error) {
	p, err := l.fetchRemote(ctx, name)
	if err == nil {
		if err := l.cache.put(name, p.Text); err != nil {
			l.logger.Warn("failed to cache prompt", zap.String("prompt", name), zap.Error(err))
		}
		return p, nil
	}
	if !errors.Is(err, errNotConfigured) {
		l.logger.Warn("prompt fetch failed", zap.String("prompt", name), zap.Error(err))
	}

	text, cerr := l.cache.get(name)
	if cerr != nil {
		return Prompt{}, fmt.Errorf("%w: %s: %v", ErrPromptUnavailable, name, errors.Join(err, cerr))
	}
	return Prompt{Name: name, Text: text, Cached: true}, nil
}

func (l *PromptLoader) promptURL(name string) (string, error) {
	u, err := url.Parse(l.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid LANGFUSE_BASE_URL: %w", err)
	}
	u = u.JoinPath(promptsPath, name)
	if l.cfg.PromptLabel != "" {
		u.RawQuery = url.Values{"label": {l.cfg.PromptLabel}}.Encode()
	}
	return u.String(), nil
}

func (l *PromptLoader) fetchRemote(ctx context.Context, name string) (Prompt, error) {
	if l.cfg.BaseURL == "" || l.cfg.PublicKey == "" || l.cfg.SecretKey == "" {
		return Prompt{}, errNotConfigured
	}
	target, err := l.promptURL(name)
	if err != nil {
		return Prompt{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, promptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Prompt{}, fmt.Errorf("create prompt request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(l.cfg.PublicKey, l.cfg.SecretKey)

	resp, err := l.http.Do(req)
	if err != nil {
		return Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Prompt{}, fmt.Errorf("prompt API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload promptPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Prompt{}, fmt.Errorf("decode prompt: %w", err)
	}
	text, err := payload.text()
	if err != nil {
		return Prompt{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Prompt{}, fmt.Errorf("prompt %s is empty", name)
	}
	return Prompt{Name: name, Version: payload.Version, Text: text}, nil
}

type promptPayload struct {
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Prompt  json.RawMessage `json:"prompt"`
}

type chatMessage struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// text renders a text prompt as is and a chat prompt as its messages joined
// under upper-cased role headers. Message placeholders have no template
// counterpart and are dropped.
func (p promptPayload) text() (string, error) {
	switch p.Type {
	case "", "text":
		var s string
		if err := json.Unmarshal(p.Prompt, &s); err != nil {
			return "", fmt.Errorf("parse text prompt: %w", err)
		}
		return s, nil
	case "chat":
		var messages []chatMessage
		if err := json.Unmarshal(p.Prompt, &messages); err != nil {
			return "", fmt.Errorf("parse chat prompt: %w", err)
		}
		parts := make([]string, 0, len(messages))
		for _, m := range messages {
			if m.Type == "placeholder" || m.Content == "" {
				continue
			}
			role := m.Role
			if role == "" {
				role = "message"
			}
			parts = append(parts, strings.ToUpper(role)+": "+m.Content)
		}
		return strings.Join(parts, "\n\n"), nil
	default:
		return "", fmt.Errorf("unsupported prompt type %q", p.Type)
	}
}

// promptCache stores prompt text under dir. An empty dir disables it.
type promptCache struct {
	dir string
}

func (c promptCache) path(name string) (string, error) {
	if c.dir == "" {
		return "", errors.New("no prompt cache directory")
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("bad prompt name %q", name)
	}
	return filepath.Join(c.dir, name+".tmpl"), nil
}

func (c promptCache) get(name string) (string, error) {
	path, err := c.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read cached prompt: %w", err)
	}
	return string(data), nil
}

// put replaces the cached copy atomically so a reader never sees half a file.
func (c promptCache) put(name, text string) error {
	if c.dir == "" {
		return nil
	}
	path, err := c.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
