package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/core/ports/driven"
	"github.com/gautamkumar30/kontract.ai/internal/core/services"
	"github.com/gautamkumar30/kontract.ai/internal/extractors/plaintext"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

var (
	compareJSONFlag      bool
	compareThresholdFlag string
	compareMinWordsFlag  int
)

var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two contract versions and report clause-level drift",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args[0], args[1])
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSONFlag, "json", false, "emit changes as JSON")
	compareCmd.Flags().StringVar(&compareThresholdFlag, "threshold", "", "only report changes at or above this risk level")
	compareCmd.Flags().IntVar(&compareMinWordsFlag, "min-words", 0, "merge clauses shorter than this many words")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, oldPath, newPath string) error {
	oldDoc, err := extractFile(cmd, oldPath)
	if err != nil {
		return err
	}
	newDoc, err := extractFile(cmd, newPath)
	if err != nil {
		return err
	}

	var extra []services.ProcessorOption
	if compareMinWordsFlag > 0 {
		extra = append(extra, services.WithMergeMinWords(compareMinWordsFlag))
	}
	processor := buildProcessor(loadConfig(), extra...)
	changes, err := processor.Compare(cmd.Context(), *oldDoc, *newDoc)
	if err != nil {
		return fmt.Errorf("comparing versions: %w", err)
	}

	if compareThresholdFlag != "" {
		threshold, err := domain.ParseRiskLevel(compareThresholdFlag)
		if err != nil {
			return err
		}
		changes = filterByRisk(changes, threshold)
	}

	if compareJSONFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(changes)
	}

	cmd.Print(renderReport(changes))
	return nil
}

// extractFile reads a contract file and runs section detection over it.
func extractFile(cmd *cobra.Command, path string) (*driven.ExtractResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := plaintext.New().Extract(cmd.Context(), raw)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	logger.Debug("extracted %d section(s) from %s", len(result.Sections), path)
	return result, nil
}

func filterByRisk(changes []domain.Change, threshold domain.RiskLevel) []domain.Change {
	filtered := make([]domain.Change, 0, len(changes))
	for _, change := range changes {
		if change.RiskLevel.AtLeast(threshold) {
			filtered = append(filtered, change)
		}
	}
	return filtered
}
