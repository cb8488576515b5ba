package commands

import (
	"olasagents-backend/cmd/registry-cli/globals"
	"olasagents-backend/lib/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every agent in the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := globals.Get(cmd.Context()).Registry
		err := service.Render(os.Stdout, service.Records())
		if err != nil {
			serviceutil.Fatal("failed to render agents", err)
		}
	},
}
