package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"photoreader/internal/config"
	"photoreader/internal/service"
	"photoreader/internal/settings"
)

// env is what every command works with.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *settings.Store
	svc   *service.Service
}

func (e *env) Close() error {
	var err error
	if e.store != nil {
		err = multierr.Append(err, e.store.Close())
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
	return err
}

// setupEnv loads the configuration and opens the settings database.
func setupEnv(dbPath, configPath string) (*env, error) {
	cfg, err := config.LoadConfiguration(configPath)
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logging.Prepare()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare logs: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.Storage.Path
	}
	store, err := settings.Open(dbPath, log.Named("settings"))
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:   cfg,
		log:   log,
		store: store,
		svc: service.NewService(service.Options{
			PageLength: cfg.Extraction.PageLength,
			Store:      store,
			Logger:     log.Named("service"),
		}),
	}, nil
}

// NewRootCmd creates the root command. setup opens the environment commands
// run against, so tests can point it at temporary locations.
func NewRootCmd(setup func(dbPath, configPath string) (*env, error)) *cobra.Command {
	var (
		dbPathFlag string
		configFlag string
		e          *env
	)
	rootCmd := &cobra.Command{
		Use:           "photoreader-cli",
		Short:         "PhotoReader CLI - inspect, play and render documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if e, err = setup(dbPathFlag, configFlag); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e == nil {
				return nil
			}
			return e.Close()
		},
	}
	getEnv := func() *env { return e }

	rootCmd.AddCommand(
		newInfoCmd(getEnv),
		newUnitsCmd(getEnv),
		newPlayCmd(getEnv),
		newSnapshotCmd(getEnv),
		newSettingsCmd(getEnv),
		newRecentCmd(getEnv),
		newConfigCmd(getEnv),
	)

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Directory of the settings database")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file")
	return rootCmd
}

func newSettingsCmd(getEnv func() *env) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or reset stored presentation settings",
	}
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print stored settings, or the defaults when none are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv()
			snap, ok := e.store.Load()
			if !ok {
				snap = e.cfg.Preferences()
				fmt.Fprintln(cmd.OutOrStdout(), "# no stored settings, showing defaults")
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove stored settings and the recent documents list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getEnv().store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings reset.")
			return nil
		},
	})
	return settingsCmd
}

func newRecentCmd(getEnv func() *env) *cobra.Command {
	var clearFlag bool
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getEnv().svc
			if clearFlag {
				svc.ClearRecent()
				fmt.Fprintln(cmd.OutOrStdout(), "Recent documents cleared.")
				return nil
			}
			items := svc.Recent()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent documents.")
				return nil
			}
			for i, p := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, p)
			}
			return nil
		},
	}
	recentCmd.Flags().BoolVar(&clearFlag, "clear", false, "Forget all recent documents")
	return recentCmd
}

func newConfigCmd(getEnv func() *env) *cobra.Command {
	var defaultsFlag bool
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if defaultsFlag {
				data, err = config.Prepare()
			} else {
				data, err = config.Dump(getEnv().cfg)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	configCmd.Flags().BoolVar(&defaultsFlag, "defaults", false, "Print the built-in defaults with comments")
	return configCmd
}

// open resolves path and loads the document.
func open(ctx context.Context, e *env, path string) (*service.Loaded, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return e.svc.Open(ctx, abs)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd(setupEnv)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
