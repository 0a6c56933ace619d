package cli

import (
	"github.com/spf13/cobra"
)

var playParty bool

var playCmd = &cobra.Command{
	Use:   "play [albumid]",
	Short: "Play an album",
	Long: `Replace the playlist with an album and start playing it. Without an id
a random album from the library is picked.

Examples:
  kodictl play 42
  kodictl play          # random album
  kodictl play --party  # party mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if playParty {
			return runLine(cmd.Context(), "play_party")
		}
		line := "play_album"
		if len(args) == 1 {
			line += " " + args[0]
		}
		return runLine(cmd.Context(), line)
	},
}

var statusCmd = shellAlias("status", "Show what is currently played", "play_what", cobra.NoArgs)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Filter the library and queue songs",
	Long: `Open the full-screen library browser. Type to filter by title or artist,
enter queues the highlighted song, esc leaves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLine(cmd.Context(), "browse")
	},
}

func init() {
	playCmd.Flags().BoolVar(&playParty, "party", false, "start party mode instead")
	rootCmd.AddCommand(playCmd, statusCmd, browseCmd)
}
