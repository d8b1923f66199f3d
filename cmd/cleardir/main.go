package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cleardir/internal/app"
	"cleardir/internal/cleardir"
	"cleardir/internal/config"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config path from --config or the defaults and reads it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		defaults, err := app.GetDefaults()
		if err != nil {
			return nil, fmt.Errorf("getting defaults: %w", err)
		}
		path = defaults["config_path"]
	}

	cfg, err := app.LoadConfig(path, explicit)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	color := app.ColorEnabled(os.Stdout, noColor || cfg.NoColor)
	reporter := app.NewConsoleReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), color)

	a, err := app.NewApp(cfg, reporter)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:     "cleardir [flags] [PATH...]",
	Short:   "Delete duplicate files within directories",
	Long:    "cleardir compares the SHA-256 checksums of the files in the given directories. If several files in a directory share a checksum, all of them except the one with the shortest path are deleted. Subdirectories are not searched.\n\nCAUTION: files are deleted without further inquiry. Use --dry-run to see what would be removed.",
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// Per-directory failures are reported by the app and do not fail the command.
		_, err = a.Run(cmd.Context(), cleardir.Options{Verbose: verbose, DryRun: dryRun}, args)
		return err
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = defaults["config_path"]
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", path)
		fmt.Fprintf(out, "Base Dir: %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Journal:  %s\n", cfg.Journal.DataDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		m := &config.Manager{}
		return m.Write(cmd.OutOrStdout(), cfg)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past runs recorded in the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.History(limit)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $CLEARDIR_CONFIG_PATH or ~/.config/cleardir.toml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.Flags().BoolP("verbose", "v", false, "More detailed output")
	rootCmd.Flags().BoolP("dry-run", "d", false, "Test run: no files will be deleted")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
}
