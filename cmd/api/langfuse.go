package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blaisecz/sleep-coach/internal/config"
	"github.com/blaisecz/sleep-coach/internal/langfuse"
	"github.com/blaisecz/sleep-coach/internal/llm"
)

// newCheckLangfuseCmd verifies Langfuse connectivity by sending a test trace
// and reporting where each advisory prompt would be loaded from.
func newCheckLangfuseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-langfuse",
		Short: "Send a test trace and fetch the advisory prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Langfuse Connection Test ===")
			fmt.Fprintf(out, "Base URL:    %s\n", cfg.LangfuseBaseURL)
			fmt.Fprintf(out, "Public Key:  %s\n", maskKey(cfg.LangfusePublicKey))
			fmt.Fprintf(out, "Secret Key:  %s\n", maskKey(cfg.LangfuseSecretKey))
			fmt.Fprintf(out, "Environment: %s\n\n", cfg.LangfuseEnv)

			client := langfuse.NewClient(langfuse.Config{
				BaseURL:     cfg.LangfuseBaseURL,
				PublicKey:   cfg.LangfusePublicKey,
				SecretKey:   cfg.LangfuseSecretKey,
				Environment: cfg.LangfuseEnv,
			})
			if !client.IsEnabled() {
				return fmt.Errorf("langfuse client is disabled, check LANGFUSE_* env vars")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			traceID, err := client.CreateTrace(ctx, langfuse.TraceInput{
				UserID: "check-langfuse",
				Name:   "check-langfuse",
				Input:  map[string]any{"time": time.Now().Format(time.RFC3339)},
				Output: map[string]any{"status": "success"},
				Tags:   []string{"test", "manual"},
			})
			if err != nil {
				return fmt.Errorf("create trace: %w", err)
			}
			if err := client.Flush(ctx); err != nil {
				return fmt.Errorf("flush trace: %w", err)
			}
			fmt.Fprintf(out, "Test trace created: %s/trace/%s\n\n", cfg.LangfuseBaseURL, traceID)

			loader := langfuse.NewPromptLoader(langfuse.PromptLoaderConfig{
				BaseURL:     cfg.LangfuseBaseURL,
				PublicKey:   cfg.LangfusePublicKey,
				SecretKey:   cfg.LangfuseSecretKey,
				PromptLabel: cfg.LangfusePromptLabel,
				CacheDir:    cfg.PromptCacheDir,
			}, nil)
			for _, name := range llm.PromptNames() {
				p, err := loader.Fetch(ctx, name)
				switch {
				case err != nil:
					fmt.Fprintf(out, "  %-28s built-in (%v)\n", name, err)
				case p.Cached:
					fmt.Fprintf(out, "  %-28s cached copy\n", name)
				default:
					fmt.Fprintf(out, "  %-28s version %d\n", name, p.Version)
				}
			}
			return nil
		},
	}
}

func maskKey(key string) string {
	if len(key) < 8 {
		if key == "" {
			return "(empty)"
		}
		return "***"
	}
	return key[:8] + "..."
}
