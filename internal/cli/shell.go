package cli

import (
	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Load the library and read commands until exit, quit or end of input.
Type help at the prompt for the command list.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVarP(&command, "command", "x", "", "run one shell command and exit")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	if command != "" {
		return runLine(cmd.Context(), command)
	}
	return withShell(cmd.Context(), func(sh *shell.Shell) error {
		return sh.Run(cmd.Context())
	})
}
