package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"photoreader/internal/config"
	"photoreader/internal/ui"
)

func main() {
	var dbPathFlag, configFlag string

	rootCmd := &cobra.Command{
		Use:          "photoreader [document]",
		Short:        "Present documents one page or one word at a time",
		Args:         cobra.MaximumNArgs(1),
		Version:      ui.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfiguration(configFlag)
			if err != nil {
				return err
			}
			opts := ui.Options{Config: cfg, DBPath: dbPathFlag}
			if len(args) == 1 {
				opts.Path = args[0]
			}
			return ui.CreateApplication(opts)
		},
	}
	rootCmd.Flags().StringVar(&dbPathFlag, "dbpath", "", "Directory of the settings database")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
