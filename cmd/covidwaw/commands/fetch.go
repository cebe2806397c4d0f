package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--since YYYY-MM-DD]",
	Short: "Downloads the source documents missing from the data directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.New(cfg.Data.Dir)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}

		svc := download.NewService(store, cfg.DownloadSources(), cfg.Sources.Timeout)

		sum, err := svc.Download(cmd.Context(), cfg.Since(), cfg.Today())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Fetched", "Cached", "No data", "Failed"})
		t.AppendRow(table.Row{sum.Fetched, sum.Cached, sum.Skipped, sum.Failed})
		t.SetStyle(table.StyleRounded)
		t.Render()

		return nil
	},
}
