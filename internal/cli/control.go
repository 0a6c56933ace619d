package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/session"
)

const volumeStep = 10

var (
	volumeUp   bool
	volumeDown bool
)

var pauseCmd = &cobra.Command{
	Use:     "pause",
	Aliases: []string{"resume"},
	Short:   "Switch between play and pause",
	Args:    cobra.NoArgs,
	RunE: withPlayer(func(ctx context.Context, s *session.Session, _ []string) error {
		if err := s.Player.PlayPause(ctx); err != nil {
			return err
		}
		return report(map[string]string{"status": "toggled"}, "⏯ Toggled")
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the music",
	Args:  cobra.NoArgs,
	RunE: withPlayer(func(ctx context.Context, s *session.Session, _ []string) error {
		if err := s.Player.Stop(ctx); err != nil {
			return err
		}
		return report(map[string]string{"status": "stopped"}, "⏹ Stopped")
	}),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Go to the next song without recording a skip",
	Long: `Go to the next playlist entry. Use 'kodictl skip' to also record the
skip in the taste profile.`,
	Args: cobra.NoArgs,
	RunE: withPlayer(func(ctx context.Context, s *session.Session, _ []string) error {
		if err := s.Player.Next(ctx); err != nil {
			return err
		}
		return report(map[string]string{"status": "next"}, "⏭ Next song")
	}),
}

var skipCmd = shellAlias("skip", "Skip the current song and record the skip", "play_skip", cobra.NoArgs)

var favoriteCmd = shellAlias("favorite", "Mark the current song as a favorite", "play_favorite", cobra.NoArgs)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Show, set or adjust the volume",
	Long: `Show the volume, set it (0-100) or adjust it in steps of 10.

Examples:
  kodictl volume        # show
  kodictl volume 50     # set to 50%
  kodictl volume --up   # raise by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: withPlayer(runVolume),
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "raise the volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "lower the volume by 10%")
	volumeCmd.MarkFlagsMutuallyExclusive("up", "down")

	rootCmd.AddCommand(pauseCmd, stopCmd, nextCmd, skipCmd, favoriteCmd, volumeCmd)
}

// withPlayer adapts fn into a RunE with an open session.
func withPlayer(fn func(ctx context.Context, s *session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()
		return fn(cmd.Context(), sess, args)
	}
}

func runVolume(ctx context.Context, s *session.Session, args []string) error {
	current, err := s.Kodi.GetVolume(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 && !volumeUp && !volumeDown {
		return report(map[string]int{"volume": current}, "🔊 Volume: %d%%", current)
	}

	target, err := volumeTarget(current, args, volumeUp, volumeDown)
	if err != nil {
		return err
	}

	if err := s.Player.Volume(ctx, target); err != nil {
		return err
	}
	return report(map[string]int{"volume": target, "previous": current},
		"🔊 Volume: %d%% (was %d%%)", target, current)
}

// volumeTarget resolves the requested level, clamping relative steps to 0..100.
func volumeTarget(current int, args []string, up, down bool) (int, error) {
	switch {
	case len(args) == 1 && (up || down):
		return 0, fmt.Errorf("%w: give a level or --up/--down, not both", kerrors.ErrInvalidArgument)
	case len(args) == 1:
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 || v > 100 {
			return 0, fmt.Errorf("%w: volume must be between 0 and 100, got %q", kerrors.ErrInvalidArgument, args[0])
		}
		return v, nil
	case up:
		return min(current+volumeStep, 100), nil
	case down:
		return max(current-volumeStep, 0), nil
	default:
		return current, nil
	}
}
