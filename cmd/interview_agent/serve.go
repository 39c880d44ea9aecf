package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/config"
	"github.com/jonathan/interview-partner/internal/interview"
	"github.com/jonathan/interview-partner/internal/llm"
	"github.com/jonathan/interview-partner/internal/rendering"
	"github.com/jonathan/interview-partner/internal/server"
	"github.com/jonathan/interview-partner/internal/server/ratelimit"
	"github.com/jonathan/interview-partner/internal/session"
)

var (
	servePort     int
	serveNoPDF    bool
	serveSeedDemo bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the interview REST API and the speech websocket.

Without GEMINI_API_KEY the server still runs: questions, evaluations and
reports come from the local fallbacks.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveNoPDF, "no-pdf", false, "Disable PDF report downloads")
	serveCmd.Flags().BoolVar(&serveSeedDemo, "seed-demo", true, "Create the demo accounts at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.JWT.Generated {
		logger.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	client, err := newModelClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close() //nolint:errcheck
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	manager := session.NewManager(store, cfg.Session.Timeout, logger)
	go manager.RunJanitor(ctx, cfg.Session.CleanupInterval)

	service := interview.NewService(manager, interview.NewCoach(client, logger), serviceOptions(cfg), logger)

	users := server.NewUserService(&cfg.Password)
	if serveSeedDemo {
		if err := users.SeedDemoAccounts(ctx, server.DemoAccounts); err != nil {
			return fmt.Errorf("failed to seed demo accounts: %w", err)
		}
	}

	var pdf rendering.PDFRenderer
	if !serveNoPDF {
		pdf = rendering.NewChromePDF(cfg.Report.ChromePath, cfg.Report.PDFTimeout, logger)
	}

	srv, err := server.New(server.Config{
		Addr:        cfg.Server.Addr(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Service:     service,
		Users:       users,
		JWT:         server.NewJWTService(&cfg.JWT),
		RateLimit:   ratelimit.FromSettings(cfg.RateLimit),
		PDF:         pdf,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// newModelClient returns the Gemini client, or nil when no API key is configured.
func newModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; using local fallbacks for questions, evaluations and reports")
		return nil, nil
	}

	llmCfg := modelConfig(cfg.Gemini)
	client, err := llm.NewClient(ctx, llmCfg, cfg.Gemini.APIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	logger.Info("language model configured", zap.String("ai_model", llmCfg.GetModel(llm.TierStandard)))
	return client, nil
}

func modelConfig(g config.GeminiConfig) *llm.Config {
	c := llm.DefaultGeminiConfig()
	if g.Model != "" {
		c = c.WithModel(llm.TierStandard, g.Model)
	}
	return c.WithSampling(g.Temperature, g.TopP, g.TopK, g.MaxOutputTokens)
}

// openStore opens the configured session store.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case config.StorePostgres:
		store, err := session.ConnectPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("session store opened", zap.String("store", config.StorePostgres))
		return store, nil
	default:
		store, err := session.NewFileStore(cfg.Session.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open session directory: %w", err)
		}
		logger.Info("session store opened", zap.String("store", config.StoreFile), zap.String("dir", cfg.Session.Dir))
		return store, nil
	}
}

func serviceOptions(cfg *config.Config) interview.Options {
	return interview.Options{
		DefaultQuestionCount: cfg.Interview.DefaultQuestionCount,
		MinAnswerLength:      cfg.Interview.MinAnswerLength,
		MaxAnswerLength:      cfg.Interview.MaxAnswerLength,
		MinResumeChars:       cfg.Interview.MinResumeChars,
		BatchConcurrency:     cfg.Interview.BatchConcurrency,
	}
}
