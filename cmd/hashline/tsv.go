package hashline

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashline/hashline/internal/config"
	"github.com/hashline/hashline/internal/output"
)

var tsvCmd = &cobra.Command{
	Use:   "tsv [flags]",
	Short: "Run the demo and export sealed blocks to a TSV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tsvConfig := config.LoadTSVConfigFromCLI()
		if err := tsvConfig.Validate(); err != nil {
			return fmt.Errorf("invalid TSV configuration: %w", err)
		}
		slog.Debug("Command-line argument", "tsv-out", tsvConfig.Output)

		outputHandler, err := output.NewTSVOutputHandler(tsvConfig.Output)
		if err != nil {
			return fmt.Errorf("failed to create TSV output handler: %w", err)
		}
		defer outputHandler.Close()

		return runDemo(outputHandler)
	},
}

func init() {
	tsvCmd.Flags().StringP("tsv-out", "t", "blocks.tsv", "TSV output file")
	if err := viper.BindPFlags(tsvCmd.Flags()); err != nil {
		slog.Error("Failed to bind tsvCmd flags", "error", err)
	}
}
