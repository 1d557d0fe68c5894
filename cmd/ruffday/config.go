package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ruff-day/internal/config"
)

var flagResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the embedded default config YAML. Save it to
~/.ruffday/configs/ruffday.yaml and edit the keys you want to change.

With --resolved the config that a round would actually use is printed,
after the search path and --difficulty are applied.

Examples:
  ruffday config > ~/.ruffday/configs/ruffday.yaml
  ruffday config --resolved --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagResolved, "resolved", false, "Print the loaded config instead of the default")
}

func runConfig(_ *cobra.Command, _ []string) {
	if !flagResolved {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadGameConfig()
	if err != nil {
		fatalf("%v", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fatalf("%v", err)
	}
	os.Stdout.Write(data)
}
