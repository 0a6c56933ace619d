package cli

import (
	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:     "queue",
	Aliases: []string{"playlist"},
	Short:   "Show and edit the audio playlist",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLine(cmd.Context(), "playlist_show")
	},
}

var queueTasteCmd = &cobra.Command{
	Use:   "taste [songid]",
	Short: "Propose a taste profile playlist, seeded by a song when given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runLine(cmd.Context(), "playlist_taste_seed "+args[0])
		}
		return runLine(cmd.Context(), "playlist_tasteprofile")
	},
}

func init() {
	queueCmd.AddCommand(
		shellAlias("add [albumid]", "Add an album, a random one without id", "playlist_add", cobra.MaximumNArgs(1)),
		shellAlias("clear", "Remove every item", "playlist_clear", cobra.NoArgs),
		queueTasteCmd,
	)
	rootCmd.AddCommand(queueCmd)
}
