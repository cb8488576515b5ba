package commands

import (
	"olasagents-backend/cmd/registry-cli/globals"
	"olasagents-backend/lib/agentsearch"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/serviceutil"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchFuzzy     bool
	searchThreshold float64
)

func init() {
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "Rank agents by name similarity instead of substring matching.")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", agentsearch.DefaultThreshold, "Minimum similarity of a fuzzy match, between 0 and 1.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query> [--fuzzy] [--threshold 0.85]",
	Short: "Lists the agents whose name matches the query.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		service := globals.Get(ctx).Registry
		query := strings.Join(args, " ")

		var results []agentstore.AgentRecord
		if searchFuzzy {
			results = agentsearch.Records(service.FuzzySearch(ctx, query, searchThreshold))
		} else {
			results = service.Search(ctx, query)
		}

		err := service.Render(os.Stdout, results)
		if err != nil {
			serviceutil.Fatal("failed to render results", err)
		}
	},
}
