package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/covidwaw/internal/config"
	"github.com/MrJamesThe3rd/covidwaw/internal/logging"
)

var (
	cfg *config.Config

	sinceFlag  string
	windowFlag int
)

var rootCmd = &cobra.Command{
	Use:           "covidwaw",
	Short:         "covidwaw builds the daily COVID-19 report for Warsaw.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine, the environment may be set already.
		_ = godotenv.Load()

		var err error

		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if sinceFlag != "" {
			if err := cfg.Report.Since.Decode(sinceFlag); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("window") {
			cfg.Report.Window = windowFlag
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		_, err = logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sinceFlag, "since", "", "First day of the report (YYYY-MM-DD), overrides REPORT_SINCE.")
	rootCmd.PersistentFlags().IntVar(&windowFlag, "window", 0, "Days in the rolling average, overrides REPORT_WINDOW.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
