// cmd/tools/assessment-admin/regenerate.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/service"
)

var (
	regenerateID          string
	regenerateAll         bool
	regenerateAfter       string
	regenerateLimit       int
	regenerateConcurrency int
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate missing or failed recommendations",
	Long: `Regenerate recommendations for completed assessments whose stored text is
missing, blank or the "Unable to generate recommendations" sentinel.

Examples:
  assessment-admin regenerate                    # one batch of 100
  assessment-admin regenerate --after <cursor>   # the batch after a previous one
  assessment-admin regenerate --all -j 4         # every affected assessment
  assessment-admin regenerate --id <uuid>        # one assessment, always replaced`,
	RunE: runRegenerate,
}

func init() {
	regenerateCmd.Flags().StringVar(&regenerateID, "id", "", "Regenerate a single assessment, replacing present text")
	regenerateCmd.Flags().BoolVar(&regenerateAll, "all", false, "Page through every affected assessment")
	regenerateCmd.Flags().StringVar(&regenerateAfter, "after", "", "Start after this assessment id (cursor of a previous batch)")
	regenerateCmd.Flags().IntVarP(&regenerateLimit, "limit", "n", 100, "Assessments per batch")
	regenerateCmd.Flags().IntVarP(&regenerateConcurrency, "concurrency", "j", 2, "Oracle calls in flight")
	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	if regenerateLimit < 1 {
		return fmt.Errorf("--limit must be positive")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	if regenerateID != "" {
		text, err := rt.Service.RegenerateRecommendations(ctx, regenerateID, true)
		if err != nil {
			return err
		}
		if recommendations.IsAbsent(text) {
			return fmt.Errorf("assessment %s: recommendations still unavailable", regenerateID)
		}
		fmt.Println(text)
		return nil
	}

	var summary service.RegenerateSummary
	if regenerateAll {
		summary, err = rt.Service.RegenerateAll(ctx, regenerateLimit, regenerateConcurrency)
	} else {
		summary, err = rt.Service.RegenerateAbsent(ctx, regenerateAfter, regenerateLimit, regenerateConcurrency)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
