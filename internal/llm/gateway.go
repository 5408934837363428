package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/blaisecz/sleep-coach/internal/domain"
	"github.com/blaisecz/sleep-coach/internal/langfuse"
)

// Advisory operation names, used for traces, spans and logs.
const (
	OpProfileAnalysis     = "profile_analysis"
	OpSessionAnalysis     = "session_analysis"
	OpChat                = "chat"
	OpDreamInterpretation = "dream_interpretation"
)

// Fallback texts returned in place of advice when a call fails.
const (
	FallbackProfileConfig  = "Configuration Error: API Key is missing. Please check your environment variables."
	FallbackProfileService = "Service Error: The AI service is currently experiencing issues. Please try again later."
	FallbackProfileEmpty   = "Unable to generate profile analysis."
	FallbackSessionError   = "Analysis unavailable. Please ensure your API key is valid."
	FallbackSessionEmpty   = "Unable to generate analysis at this time."
	FallbackChatError      = "I am currently offline due to a connection issue. Please check your API key."
	FallbackChatEmpty      = "I'm having trouble thinking right now. Try again later."
	FallbackDreamText      = "Could not interpret dream at this moment."
	FallbackDreamTheme     = "Unknown"
)

// DefaultTimeout bounds each advisory call.
const DefaultTimeout = 30 * time.Second

// Advisor produces sleep advice. Implementations never fail: every error is
// converted to a fallback value.
type Advisor interface {
	AnalyzeUserProfile(ctx context.Context, profile domain.UserProfile) string
	AnalyzeSleepSession(ctx context.Context, session domain.SleepSession, profile *domain.UserProfile) string
	SleepCoachChat(ctx context.Context, history []domain.ChatMessage, message string, lastSession *domain.SleepSession) string
	InterpretDream(ctx context.Context, text string) domain.DreamAnalysis
}

// Reporter receives advisory failures, e.g. an error tracker.
type Reporter interface {
	Report(ctx context.Context, operation string, err error)
}

// TraceMeta identifies the Langfuse trace a call is recorded under.
type TraceMeta struct {
	TraceID string
	UserID  string
}

type traceMetaKey struct{}

// WithTrace attaches trace identifiers to ctx for the next advisory call.
func WithTrace(ctx context.Context, meta TraceMeta) context.Context {
	return context.WithValue(ctx, traceMetaKey{}, meta)
}

func traceMetaFrom(ctx context.Context) TraceMeta {
	meta, _ := ctx.Value(traceMetaKey{}).(TraceMeta)
	return meta
}

// GatewayConfig wires the gateway's collaborators. Only Client may be nil
// in production; the rest default to no-ops.
type GatewayConfig struct {
	Client   *Client
	Prompts  *Prompts
	Traces   langfuse.Client
	Reporter Reporter
	Logger   *zap.Logger
	Timeout  time.Duration
}

// Gateway is the Advisor backed by the advisory model.
type Gateway struct {
	client   *Client
	prompts  *Prompts
	traces   langfuse.Client
	reporter Reporter
	logger   *zap.Logger
	timeout  time.Duration
}

var _ Advisor = (*Gateway)(nil)

func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		client:   cfg.Client,
		prompts:  cfg.Prompts,
		traces:   cfg.Traces,
		reporter: cfg.Reporter,
		logger:   cfg.Logger,
		timeout:  cfg.Timeout,
	}
	if g.prompts == nil {
		g.prompts = DefaultPrompts()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	g.logger = g.logger.With(zap.String("component", "advisory"))
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.client == nil {
		g.logger.Warn("advisory API key is missing, advice will use fallback text")
	}
	return g
}

func (g *Gateway) AnalyzeUserProfile(ctx context.Context, profile domain.UserProfile) string {
	text, err := g.completeText(ctx, OpProfileAnalysis, func() ([]openai.ChatCompletionMessageParamUnion, error) {
		prompt, err := g.prompts.Profile(profile)
		if err != nil {
			return nil, err
		}
		return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}, nil
	})

	errFallback := FallbackProfileService
	if errors.Is(err, ErrCredentialMissing) {
		errFallback = FallbackProfileConfig
	}

	out, fallback := pickText(text, err, errFallback, FallbackProfileEmpty)
	g.record(ctx, OpProfileAnalysis, profile, out, err, fallback)
	return out
}

func (g *Gateway) AnalyzeSleepSession(ctx context.Context, session domain.SleepSession, profile *domain.UserProfile) string {
	text, err := g.completeText(ctx, OpSessionAnalysis, func() ([]openai.ChatCompletionMessageParamUnion, error) {
		prompt, err := g.prompts.Session(session, profile)
		if err != nil {
			return nil, err
		}
		return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}, nil
	})

	out, fallback := pickText(text, err, FallbackSessionError, FallbackSessionEmpty)
	g.record(ctx, OpSessionAnalysis, session, out, err, fallback)
	return out
}

func (g *Gateway) SleepCoachChat(ctx context.Context, history []domain.ChatMessage, message string, lastSession *domain.SleepSession) string {
	text, err := g.completeText(ctx, OpChat, func() ([]openai.ChatCompletionMessageParamUnion, error) {
		system, err := g.prompts.ChatSystem(lastSession)
		if err != nil {
			return nil, err
		}
		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
		messages = append(messages, openai.SystemMessage(system))
		for _, turn := range history {
			if turn.Role == domain.ChatRoleModel {
				messages = append(messages, openai.AssistantMessage(turn.Text))
			} else {
				messages = append(messages, openai.UserMessage(turn.Text))
			}
		}
		messages = append(messages, openai.UserMessage(message))
		return messages, nil
	})

	out, fallback := pickText(text, err, FallbackChatError, FallbackChatEmpty)
	g.record(ctx, OpChat, map[string]any{"message": message, "history_turns": len(history)}, out, err, fallback)
	return out
}

type dreamPayload struct {
	Interpretation *string  `json:"interpretation"`
	Themes         []string `json:"themes"`
}

var dreamSchema = JSONSchema{
	Name: "dream_interpretation",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"interpretation": map[string]any{"type": "string"},
			"themes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"interpretation", "themes"},
		"additionalProperties": false,
	},
}

func (g *Gateway) InterpretDream(ctx context.Context, text string) domain.DreamAnalysis {
	var payload dreamPayload
	err := g.call(ctx, OpDreamInterpretation, func(ctx context.Context) error {
		prompt, err := g.prompts.Dream(text)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAdvisoryRequest, err)
		}
		messages := []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}
		if err := g.client.CompleteJSON(ctx, messages, dreamSchema, &payload); err != nil {
			return err
		}
		if payload.Interpretation == nil || payload.Themes == nil {
			return fmt.Errorf("%w: interpretation and themes are required", ErrMalformedResponse)
		}
		return nil
	})

	out := FallbackDream()
	if err == nil {
		out = domain.DreamAnalysis{
			Interpretation: stripAsterisks(*payload.Interpretation),
			Themes:         make([]string, len(payload.Themes)),
		}
		for i, theme := range payload.Themes {
			out.Themes[i] = stripAsterisks(theme)
		}
	}

	g.record(ctx, OpDreamInterpretation, map[string]any{"dream": text}, out, err, err != nil)
	return out
}

// FallbackDream is the interpretation used when the advisory call fails.
func FallbackDream() domain.DreamAnalysis {
	return domain.DreamAnalysis{
		Interpretation: FallbackDreamText,
		Themes:         []string{FallbackDreamTheme},
	}
}

func (g *Gateway) completeText(ctx context.Context, op string, build func() ([]openai.ChatCompletionMessageParamUnion, error)) (string, error) {
	var text string
	err := g.call(ctx, op, func(ctx context.Context) error {
		messages, err := build()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAdvisoryRequest, err)
		}
		text, err = g.client.Complete(ctx, messages)
		return err
	})
	return text, err
}

// call runs fn under the advisory timeout inside a span. A missing client
// short-circuits before fn runs.
func (g *Gateway) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if g.client == nil {
		return ErrCredentialMissing
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tracer := otel.Tracer("sleep-coach-api/advisory")
	ctx, span := tracer.Start(ctx, "advisory."+op)
	defer span.End()

	span.SetAttributes(
		attribute.String("advisory.operation", op),
		attribute.String("advisory.model", g.client.Model()),
	)

	start := time.Now()
	err := fn(ctx)
	span.SetAttributes(attribute.Int64("advisory.duration_ms", time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// record logs, reports and traces one finished call.
func (g *Gateway) record(ctx context.Context, op string, input, output any, err error, fallback bool) {
	meta := traceMetaFrom(ctx)

	if err != nil {
		g.logger.Warn("advisory call failed, using fallback",
			zap.String("operation", op),
			zap.String("user_id", meta.UserID),
			zap.Error(err),
		)
		if g.reporter != nil && !errors.Is(err, ErrCredentialMissing) {
			g.reporter.Report(ctx, op, err)
		}
	}

	if g.traces == nil || !g.traces.IsEnabled() {
		return
	}
	metadata := map[string]any{
		"fallback": fallback,
		"model":    g.client.Model(),
	}
	if err != nil {
		metadata["error"] = err.Error()
	}
	if _, terr := g.traces.CreateTrace(ctx, langfuse.TraceInput{
		ID:       meta.TraceID,
		UserID:   meta.UserID,
		Name:     "advisory." + op,
		Input:    input,
		Output:   output,
		Tags:     []string{"advisory", op},
		Metadata: metadata,
	}); terr != nil {
		g.logger.Warn("failed to create trace", zap.String("operation", op), zap.Error(terr))
	}
}

func pickText(text string, err error, errFallback, emptyFallback string) (string, bool) {
	switch {
	case err != nil:
		return errFallback, true
	case strings.TrimSpace(text) == "":
		return emptyFallback, true
	default:
		return stripAsterisks(text), false
	}
}

func stripAsterisks(s string) string {
	return strings.ReplaceAll(s, "*", "")
}
