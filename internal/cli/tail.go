package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/logging"
	"github.com/tessro/kodictl/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
	tailAutoSkip  bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Poll Kodi's audio player and print changes as they happen.

Events tracked:
  - Song changes, completions, skips and stops
  - Pause/Resume
  - Volume changes
  - Audio player start and end

With --auto-skip (or tail.auto_skip in the config) every skipped song is
reported to the taste profile.`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "Go template per event, e.g. '{{.Time}} {{.Type}} {{.Title}}'")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default tail.interval)")
	tailCmd.Flags().BoolVar(&tailAutoSkip, "auto-skip", false, "report skips to the taste profile")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx := logging.ContextWithNewCorrelationID(cmd.Context())

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithJSON(jsonOut),
	)
	if err := formatter.SetTemplate(tailFormat); err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	var skips *tail.AutoSkip
	if tailAutoSkip || cfg.Tail.AutoSkip {
		client, id, err := sess.RequireProfile(ctx)
		if err != nil {
			return err
		}
		skips = &tail.AutoSkip{Recorder: client, ProfileID: id}
	}

	interval := tailInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Millisecond
	}

	logging.Ctx(ctx).Debug().Dur("interval", interval).Bool("auto_skip", skips != nil).Msg("following player")
	return tail.Follow(ctx, tail.NewWatcher(sess.Player, interval), formatter, stdout, skips)
}
