// Sleep Coach API
//
// REST API for sleep onboarding, session logging and AI sleep coaching.
//
//	@title			Sleep Coach API
//	@version		1.0
//	@description	Onboarding questionnaires, sleep session logging, dashboard metrics and an AI sleep coach.
//
//	@BasePath	/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//
//	@tag.name			auth
//	@tag.description	Mock sign-in endpoints
//
//	@tag.name			onboarding
//	@tag.description	Questionnaire state machine
//
//	@tag.name			sleep-sessions
//	@tag.description	Sleep session logging endpoints
//
//	@tag.name			coach
//	@tag.description	AI sleep coach chat and advice feedback
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blaisecz/sleep-coach/internal/api"
	"github.com/blaisecz/sleep-coach/internal/api/handler"
	"github.com/blaisecz/sleep-coach/internal/config"
	"github.com/blaisecz/sleep-coach/internal/langfuse"
	"github.com/blaisecz/sleep-coach/internal/llm"
	"github.com/blaisecz/sleep-coach/internal/logging"
	"github.com/blaisecz/sleep-coach/internal/repository"
	"github.com/blaisecz/sleep-coach/internal/seed"
	"github.com/blaisecz/sleep-coach/internal/service"
	"github.com/blaisecz/sleep-coach/internal/survey"
	"github.com/blaisecz/sleep-coach/internal/telemetry"
)

const serviceName = "sleep-coach-api"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sleep-coach",
		Short:        "Sleep Coach API server",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newQuestionsCmd(), newCheckLangfuseCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "questions [variant]",
		Short:     "Print a built-in question set as YAML",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: survey.Variants(),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := survey.VariantBaseline
			if len(args) == 1 {
				variant = args[0]
			}
			set, err := survey.Builtin(variant)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(set.YAML())
			return err
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	flushSentry, err := telemetry.InitSentry(cfg, logger)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer flushSentry()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, serviceName)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}

	// Langfuse (traces, scores and prompt management)
	traces := langfuse.NewClient(langfuse.Config{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Environment: cfg.LangfuseEnv,
		Logger:      logger,
	})
	promptLoader := langfuse.NewPromptLoader(langfuse.PromptLoaderConfig{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		PromptLabel: cfg.LangfusePromptLabel,
		CacheDir:    cfg.PromptCacheDir,
	}, logger)
	prompts := llm.LoadPrompts(ctx, promptLoader, logger)

	// Advisory gateway (nil client when no API key is configured)
	advisor := llm.NewGateway(llm.GatewayConfig{
		Client: llm.NewClient(llm.ClientConfig{
			APIKey:     cfg.AdvisoryAPIKey,
			Model:      cfg.AdvisoryModel,
			BaseURL:    cfg.AdvisoryBaseURL,
			MaxRetries: cfg.AdvisoryMaxRetries,
		}),
		Prompts:  prompts,
		Traces:   traces,
		Reporter: telemetry.NewSentryReporter(nil),
		Logger:   logger,
		Timeout:  cfg.AdvisoryTimeout,
	})

	// Initialize repositories
	store := repository.NewStore()
	userRepo := repository.NewUserRepository(store)
	sessionRepo := repository.NewSleepSessionRepository(store)
	chatRepo := repository.NewChatRepository(store)
	inFlight := repository.NewInFlight()

	// Initialize services
	authCfg := service.AuthConfig{
		Secret:          cfg.AuthSecret,
		TokenTTL:        cfg.AuthTokenTTL,
		DefaultTimezone: cfg.DefaultTimezone,
	}
	if cfg.Seed {
		logger.Info("demo sign-ins will be seeded with sample data (SEED=true)")
		authCfg.OnDemo = seed.New(userRepo, sessionRepo, nil, nil, logger).Demo
	}
	authService := service.NewAuthService(userRepo, authCfg, nil)
	userService := service.NewUserService(userRepo)
	onboardingService := service.NewOnboardingService(userRepo, inFlight, advisor, nil)
	sessionService := service.NewSessionService(sessionRepo, userRepo, inFlight, advisor, nil)
	dreamService := service.NewDreamService(sessionRepo, userRepo, inFlight, advisor, nil)
	dashboardService := service.NewDashboardService(sessionRepo, userRepo)
	chatService := service.NewChatService(chatRepo, sessionRepo, userRepo, inFlight, advisor, nil)
	feedbackService := service.NewFeedbackService(userRepo, traces)
	labService := service.NewLabService(nil)

	// Initialize handlers
	handlers := api.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Questionnaire: handler.NewQuestionnaireHandler(),
		Onboarding:    handler.NewOnboardingHandler(onboardingService),
		Session:       handler.NewSessionHandler(sessionService),
		Dream:         handler.NewDreamHandler(dreamService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Coach:         handler.NewCoachHandler(chatService, feedbackService),
		Lab:           handler.NewLabHandler(labService),
	}

	// Setup router
	router := api.NewRouter(handlers, authService, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := traces.Flush(shutdownCtx); err != nil {
		logger.Warn("langfuse flush incomplete", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", zap.Error(err))
	}
	return nil
}
