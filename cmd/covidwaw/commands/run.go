package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/export"
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--since YYYY-MM-DD] [--window N]",
	Short: "Downloads missing documents and writes the report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd, true)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [--since YYYY-MM-DD] [--window N]",
	Short: "Writes the report from the documents already downloaded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd, false)
	},
}

func report(cmd *cobra.Command, fetch bool) error {
	svc, err := newExportService()
	if err != nil {
		return err
	}

	res, err := svc.Run(cmd.Context(), options(fetch))
	if err != nil {
		return err
	}

	printSummary(res, fetch)

	return nil
}

func printSummary(res *export.Result, fetch bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Run " + res.RunID)
	t.AppendHeader(table.Row{"Day", "New cases", "Deaths", "Tests"})

	for _, rec := range res.Chart.Table {
		tests := "-"
		if rec.Daily.Tests != nil {
			tests = strconv.Itoa(*rec.Daily.Tests)
		}

		t.AppendRow(table.Row{rec.Day.Format(covid.DayLayout), rec.Daily.Positive, rec.Daily.Deaths, tests})
	}

	if fetch {
		t.AppendFooter(table.Row{"Downloaded", res.Download.Fetched, "Failed", res.Download.Failed})
	}

	t.AppendFooter(table.Row{"Records", res.Records, "Report", res.Output})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
