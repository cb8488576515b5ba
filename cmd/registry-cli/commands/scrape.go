package commands

import (
	"log/slog"
	"olasagents-backend/cmd/registry-cli/globals"
	"olasagents-backend/lib/render"
	"olasagents-backend/lib/serviceutil"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var scrapeMaxPages int

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "Stop after this many pages, overrides scrape.max_pages.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--max-pages <n>]",
	Short: "Scrapes every page of the registry and merges new agents into the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)
		if scrapeMaxPages > 0 {
			value.Registry.SetMaxPages(scrapeMaxPages)
		}

		slog.InfoContext(ctx, "scraping registry", "url", value.Config.AgentsUrl())
		bar := render.NewScrapeProgress(os.Stderr)

		t1 := time.Now()
		added, err := value.Registry.Scrape(ctx, bar.Update)
		bar.Stop(err != nil)
		if err != nil {
			serviceutil.Fatal("failed to scrape registry", err)
		}

		slog.InfoContext(
			ctx, "scrape finished",
			"added", len(added),
			"total", len(value.Registry.Records()),
			"seconds", time.Since(t1).Seconds(),
		)
	},
}
