// Package cli wires kodictl's cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/config"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
	"github.com/tessro/kodictl/internal/tui/styles"
)

var (
	cfgFile   string
	jsonOut   bool
	verbosity int
	command   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kodictl",
	Short: "Remote control for a Kodi music library",
	Long: `kodictl drives a Kodi media center from the terminal: browse a cached copy
of the audio library, manage the playlist, and keep an Echonest taste
profile in step with your playcounts and ratings.

Without a subcommand kodictl starts the interactive shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE:          runShell,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.kodictlrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose logging (-vv for debug)")
	rootCmd.Flags().StringVarP(&command, "command", "x", "", "run one shell command and exit")
}

func initConfig() error {
	var err error
	switch _, statErr := os.Stat(cfgFile); {
	case cfgFile != "" && os.IsNotExist(statErr):
		cfg = config.LoadDefaults()
	case cfgFile != "":
		cfg, err = config.LoadFrom(cfgFile)
	default:
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}

	if err := initLogging(); err != nil {
		return err
	}
	styles.ApplyTheme(cfg.Display.Theme)
	return nil
}

func initLogging() error {
	lc := logging.Config{
		Level:  logging.LevelForVerbosity(verbosity, cfg.Log.Level),
		Format: cfg.Log.Format,
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		lc.Output = f
	}
	logging.Init(lc)
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, kerrors.Format(err))
		stop()
		os.Exit(1)
	}
}

// configPath is the file config commands read and write.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}
