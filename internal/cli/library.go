package cli

import (
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local library cache",
	Long: `The library cache is a snapshot of Kodi's songs and albums. It is loaded
from disk when present and ingested from Kodi otherwise.`,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize playcounts and ratings",
}

func init() {
	libraryCmd.AddCommand(
		shellAlias("load", "Load the snapshot, ingesting from Kodi when missing", "library_info", cobra.NoArgs),
		shellAlias("refresh", "Discard the snapshot and ingest the library again", "library_refresh", cobra.NoArgs),
		shellAlias("info", "Show snapshot location, age and size", "library_info", cobra.NoArgs),
	)
	syncCmd.AddCommand(
		shellAlias("pull", "Pull playcount and rating changes from Kodi", "songs_sync", cobra.NoArgs),
		shellAlias("push", "Push pending changes to the taste profile", "echonest_sync", cobra.NoArgs),
	)
	rootCmd.AddCommand(libraryCmd, syncCmd)
}
