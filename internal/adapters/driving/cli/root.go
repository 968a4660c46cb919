// Package cli provides the kontract command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/ai/gemini"
	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/config/file"
	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/core/services"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "kontract",
	Short: "Track semantic drift between contract versions",
	Long: `kontract compares successive versions of a legal document,
classifies each clause-level change, and scores its business risk.
An optional Gemini API key enables AI summaries and explanations;
without one the rule-based fallback is used.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig opens the config store; a missing or unreadable config is
// not fatal for comparison commands.
func loadConfig() *file.ConfigStore {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config unavailable: %v", err)
		return nil
	}
	return cfg
}

// buildAssistant creates the Gemini assistant when an API key is
// configured, nil otherwise.
func buildAssistant(cfg *file.ConfigStore) driven.Assistant {
	if cfg == nil {
		return nil
	}
	apiKey := cfg.GetString(file.KeyGeminiAPIKey)
	if apiKey == "" {
		logger.Debug("no Gemini API key configured, using rule-based fallback")
		return nil
	}

	assistant, err := gemini.NewAssistant(gemini.Config{
		APIKey: apiKey,
		Model:  cfg.GetString(file.KeyGeminiModel),
	})
	if err != nil {
		logger.Warn("gemini assistant unavailable: %v", err)
		return nil
	}
	return assistant
}

// buildProcessor wires a store-less processor from configuration.
// Options in extra take precedence over configured values.
func buildProcessor(cfg *file.ConfigStore, extra ...services.ProcessorOption) *services.Processor {
	var opts []services.ProcessorOption
	if cfg != nil {
		if minWords := cfg.GetInt(file.KeyMergeMinWords); minWords > 0 {
			opts = append(opts, services.WithMergeMinWords(minWords))
		}
		if threshold, err := domain.ParseRiskLevel(cfg.GetString(file.KeyAlertThreshold)); err == nil {
			opts = append(opts, services.WithAlertThreshold(threshold))
		}
	}
	opts = append(opts, extra...)
	return services.NewProcessor(nil, buildAssistant(cfg), opts...)
}
