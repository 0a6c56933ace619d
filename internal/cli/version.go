package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata, stamped with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// currentBuild fills in the commit from the module's VCS stamp when the
// binary was built without ldflags.
func currentBuild() buildInfo {
	b := buildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if b.Commit != "unknown" {
		return b
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				b.Commit = s.Value
			}
		}
	}
	return b
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := currentBuild()
		if jsonOut {
			return printJSON(b)
		}
		fmt.Fprintf(stdout, "kodictl %s\n", b.Version)
		if verbosity == 0 {
			return nil
		}
		for _, row := range [][2]string{
			{"commit", b.Commit},
			{"built", b.BuildDate},
			{"go version", b.GoVersion},
			{"platform", b.Platform},
		} {
			fmt.Fprintf(stdout, "  %-11s %s\n", row[0]+":", row[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
