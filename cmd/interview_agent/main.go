// Package main provides the entry point for the interview practice partner.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/config"
	"github.com/jonathan/interview-partner/internal/logging"
)

var (
	configPath string
	logDebug   bool
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "AI interview practice partner",
	Long: "Interview practice partner: generates interview questions with Gemini, scores spoken answers and resumes, " +
		"and produces a final report with a radar chart. Run `serve` to start the REST API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "json-logs", false, "Write logs as JSON")
}

// loadConfig reads the config file and environment, letting flags override
// the log settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logDebug {
		cfg.Log.Debug = true
	}
	if logJSON {
		cfg.Log.JSON = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
