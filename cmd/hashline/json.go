package hashline

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashline/hashline/internal/config"
	"github.com/hashline/hashline/internal/output"
)

var jsonCmd = &cobra.Command{
	Use:   "json [flags]",
	Short: "Run the demo and export sealed blocks to JSON files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonConfig := config.LoadJSONConfigFromCLI()
		if err := jsonConfig.Validate(); err != nil {
			return fmt.Errorf("invalid JSON configuration: %w", err)
		}
		slog.Debug("Command-line argument", "json-out", jsonConfig.Output)

		outputHandler, err := output.NewJSONOutputHandler(jsonConfig.Output)
		if err != nil {
			return fmt.Errorf("failed to create JSON output handler: %w", err)
		}
		defer outputHandler.Close()

		return runDemo(outputHandler)
	},
}

func init() {
	jsonCmd.Flags().StringP("json-out", "o", "out", "JSON output directory")
	if err := viper.BindPFlags(jsonCmd.Flags()); err != nil {
		slog.Error("Failed to bind jsonCmd flags", "error", err)
	}
}
