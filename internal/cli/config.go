package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/critic/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration with credentials masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Options{
			ConfigPath:          flagConfig,
			Overrides:           buildOverrides(),
			SkipCredentialCheck: true,
		})
		if err != nil {
			return err
		}

		text, err := cfg.Redacted()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default .critic.yaml when present)")
}
