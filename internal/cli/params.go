package cli

import (
	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/wizard"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Set the Kodi server and Echonest parameters",
	Long: `Ask for the Kodi host, port, transport and credentials plus the Echonest
API key and profile name, then save them to the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wizard.RunParamsForm(cfg); err != nil {
			return err
		}
		path := configPath()
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		return report(map[string]string{"status": "saved", "path": path}, "Parameters saved to %s", path)
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}
