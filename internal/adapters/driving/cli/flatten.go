package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var flattenJSON bool

var flattenCmd = &cobra.Command{
	Use:   "flatten CATALOG",
	Short: "List the text records a catalog contributes to a comparison",
	Long: `Loads a catalog and prints every control and part with prose, in the
order they are compared. Nothing is embedded, so no provider is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlatten,
}

func init() {
	flattenCmd.Flags().BoolVar(&flattenJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	if matchService == nil {
		return errNotConfigured("match")
	}

	records, err := matchService.Flatten(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("flatten failed: %w", err)
	}

	if flattenJSON {
		out := make([]jsonRecord, 0, len(records))
		for _, r := range records {
			out = append(out, toJSONRecord(r))
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No controls or parts with prose found.")
		return nil
	}

	for i, r := range records {
		cmd.Printf("[%d] %s / %s\n", i+1, r.DisplayParentID(), r.DisplayID())
		if r.GroupID != "" {
			cmd.Printf("    Group: %s\n", r.GroupID)
		}
		cmd.Printf("    %s\n", excerpt(r))
	}
	cmd.Println()
	cmd.Printf("%d records\n", len(records))
	return nil
}
