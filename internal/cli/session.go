package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
	"github.com/tessro/kodictl/internal/session"
	"github.com/tessro/kodictl/internal/shell"
	"github.com/tessro/kodictl/internal/wizard"
)

// openSession builds a session from the loaded config. The Kodi host is the
// one setting nothing can default.
func openSession() (*session.Session, error) {
	if cfg.Kodi.Host == "" {
		return nil, kerrors.WithSuggestion(
			fmt.Errorf("kodi host: %w", kerrors.ErrNotConfigured),
			"Run 'kodictl params' or set KODICTL_KODI_HOST",
		)
	}
	return session.New(cfg)
}

// withShell opens a session, runs fn against a shell bound to the process's
// standard streams, and closes the session.
func withShell(ctx context.Context, fn func(*shell.Shell) error) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to close session")
		}
	}()

	sh := shell.New(sess, shell.Options{
		In:          os.Stdin,
		Out:         os.Stdout,
		JSON:        jsonOut,
		Interactive: !jsonOut && wizard.IsTerminal(),
	})
	return fn(sh)
}

// runLine executes a single shell command line outside the prompt.
func runLine(ctx context.Context, line string) error {
	return withShell(ctx, func(sh *shell.Shell) error {
		err := sh.Exec(ctx, line)
		if errors.Is(err, shell.ErrExit) {
			return nil
		}
		return err
	})
}

// shellAlias builds a command that forwards to a shell command, appending
// its own arguments.
func shellAlias(use, short, line string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := line
			for _, a := range args {
				l += " " + a
			}
			return runLine(cmd.Context(), l)
		},
	}
}
