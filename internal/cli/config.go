package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/kodictl/internal/config"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing the kodictl configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after defaults and KODICTL_* overrides. Secrets are masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	keys := config.Keys()
	slices.Sort(keys)
	configSetCmd.Long = "Set a configuration value.\n\nSupported keys:\n  " + strings.Join(keys, "\n  ") + `

Examples:
  kodictl config set kodi.host 192.168.1.65
  kodictl config set tail.auto_skip true`

	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	shown.Kodi.Password = mask(shown.Kodi.Password)
	shown.Echonest.APIKey = mask(shown.Echonest.APIKey)

	if jsonOut {
		return printJSON(shown)
	}
	fmt.Fprintf(stdout, "# %s\n\n", configPath())
	enc := toml.NewEncoder(stdout)
	enc.Indent = "  "
	return enc.Encode(shown)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return kerrors.WithSuggestion(
			fmt.Errorf("config file already exists at %s", path),
			"Use 'kodictl config set' or 'kodictl params' to change it",
		)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]string{"status": "created", "path": path})
	}
	fmt.Fprintf(stdout, "Created config file: %s\n", path)
	fmt.Fprintln(stdout, "\nNext steps:")
	fmt.Fprintln(stdout, "  1. Run 'kodictl params' to set the Kodi host and the Echonest API key")
	fmt.Fprintln(stdout, "  2. Run 'kodictl library load' to build the library cache")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path := configPath()
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	shown := value
	if key == "kodi.password" || key == "echonest.api_key" {
		shown = mask(value)
	}
	return report(map[string]string{"status": "updated", "key": key, "path": path}, "Set %s = %s", key, shown)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return kerrors.WithSuggestion(
			fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path),
			"Run 'kodictl config init' first",
		)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return kerrors.WithSuggestion(errors.New("no editor found"), "Set the EDITOR environment variable")
	}

	c := exec.CommandContext(cmd.Context(), editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return err
	}

	if _, err := config.LoadFrom(path); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	return nil
}
