package commands

import (
	"olasagents-backend/cmd/registry-cli/globals"
	"olasagents-backend/lib/render"
	"olasagents-backend/lib/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metadataCmd)
}

var metadataCmd = &cobra.Command{
	Use:   "metadata <id>",
	Short: "Prints the ipfs metadata of an agent, fetching it on first use.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		service := globals.Get(ctx).Registry

		record, meta, err := service.Metadata(ctx, args[0])
		if err != nil {
			serviceutil.Fatal("failed to get agent metadata", err)
		}
		render.Metadata(os.Stdout, record, meta)
	},
}
