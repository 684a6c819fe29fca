package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catmatch/internal/adapters/driving/tui"
	"github.com/custodia-labs/catmatch/internal/core/domain"
)

var (
	matchThreshold float64
	matchTopK      int
	matchJSON      bool
	matchNoCache   bool
	matchBrowse    bool
)

// browseReport and outputIsTerminal are replaced in tests.
var (
	browseReport     = tui.Run
	outputIsTerminal = isTerminal
)

var matchCmd = &cobra.Command{
	Use:   "match BASE MERGE",
	Short: "Find base controls matching each control part of the merge catalog",
	Long: `Compares two control catalogs and reports, for every control or part with
prose in MERGE, the most similar records of BASE.

Catalogs may be local files (.json, .yaml, .yml, .xml) or GitHub references
of the form github:owner/repo/path[@ref].

Threshold and top-k default to the 'match.threshold' and 'match.top_k'
settings (0.65 and 3 out of the box).`,
	Example: `  catmatch match nist-800-53.json internal-controls.yaml
  catmatch match github:usnistgov/oscal-content/nist.gov/SP800-53/rev5/json/NIST_SP-800-53_rev5_catalog.json mine.json --top-k 5
  catmatch match base.xml merge.xml --threshold 0.8 --json
  catmatch match base.json merge.json --interactive`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationEmbedder: "true"},
	RunE:        runMatch,
}

func init() {
	matchCmd.Flags().Float64VarP(&matchThreshold, "threshold", "t", domain.DefaultThreshold,
		"minimum similarity score for a match, in [-1, 1]")
	matchCmd.Flags().IntVarP(&matchTopK, "top-k", "k", domain.DefaultTopK, "maximum matches reported per control part")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output the report as JSON")
	matchCmd.Flags().BoolVar(&matchNoCache, "no-cache", false, "do not read or write the embedding cache")
	matchCmd.Flags().BoolVarP(&matchBrowse, "interactive", "i", false, "browse the report in an interactive terminal view")
	matchCmd.MarkFlagsMutuallyExclusive("json", "interactive")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchService == nil {
		return errNotConfigured("match")
	}

	opts, err := resolveMatchOptions(cmd)
	if err != nil {
		return err
	}
	if matchBrowse && !outputIsTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("--interactive requires a terminal: %w", domain.ErrInvalidInput)
	}

	report, err := matchService.Compare(cmd.Context(), args[0], args[1], opts)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchBrowse {
		return browseReport(cmd.Context(), report, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if matchJSON {
		return writeJSONReport(cmd.OutOrStdout(), report)
	}
	return writeTextReport(cmd.OutOrStdout(), report)
}

// resolveMatchOptions starts from stored settings and applies explicit flags.
func resolveMatchOptions(cmd *cobra.Command) (domain.MatchOptions, error) {
	opts := domain.DefaultMatchOptions()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return domain.MatchOptions{}, fmt.Errorf("failed to get settings: %w", err)
		}
		opts = settings.Match
	}

	if cmd.Flags().Changed("threshold") {
		opts.Threshold = matchThreshold
	}
	if cmd.Flags().Changed("top-k") {
		opts.TopK = matchTopK
	}
	return opts, nil
}
