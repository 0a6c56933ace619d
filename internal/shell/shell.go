// Package shell implements the interactive kodictl prompt. Each input line
// is parsed into a throwaway cobra command tree and dispatched.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
	"github.com/tessro/kodictl/internal/session"
	"github.com/tessro/kodictl/internal/wizard"
)

// Shell reads commands from a line stream and runs them against a session.
type Shell struct {
	sess   *session.Session
	in     *bufio.Reader
	out    io.Writer
	prompt *wizard.Interactive

	json        bool
	interactive bool
	pageLines   int

	browse func(ctx context.Context) ([]int, error)
}

// Options configures a Shell.
type Options struct {
	In  io.Reader
	Out io.Writer

	// JSON prints command results as JSON instead of styled text.
	JSON bool

	// Interactive enables form prompts and the browser. It should only be
	// set when In and Out are a terminal.
	Interactive bool
}

// New creates a shell bound to sess.
func New(sess *session.Session, opts Options) *Shell {
	in := bufio.NewReader(opts.In)
	prompt := wizard.NewInteractive(in, opts.Out)
	prompt.SetEnabled(opts.Interactive)

	s := &Shell{
		sess:        sess,
		in:          in,
		out:         opts.Out,
		prompt:      prompt,
		json:        opts.JSON,
		interactive: opts.Interactive,
		pageLines:   sess.Config.Display.PageLines,
	}
	s.browse = s.runBrowser
	return s
}

// ErrExit is returned by Exec for the exit command.
var ErrExit = errors.New("exit")

// Run loads the library, then reads and executes lines until exit, quit or
// end of input. Command failures are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.loadLibrary(ctx); err != nil {
		return err
	}

	name := s.sess.FriendlyName(ctx)
	s.printWelcome()

	for {
		fmt.Fprintf(s.out, "(%s) ", name)

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		if line = strings.TrimSpace(line); line != "" {
			switch execErr := s.Exec(ctx, line); {
			case errors.Is(execErr, ErrExit):
				fmt.Fprintln(s.out, "Bye!")
				return nil
			case execErr != nil:
				fmt.Fprintln(s.out, kerrors.Format(execErr))
			}
		}

		if eof {
			fmt.Fprintln(s.out, "\nBye!")
			return nil
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	logging.Ctx(ctx).Debug().Str("command", args[0]).Str("line", line).Msg("dispatching command")

	root := s.commandTree()
	root.SetArgs(args)
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.out)
	return root.ExecuteContext(ctx)
}

// commandTree builds a fresh command tree so flag values never leak between lines.
func (s *Shell) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "kodictl",
		Short:         "Kodi remote controller",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddGroup(
		&cobra.Group{ID: "albums", Title: "Albums:"},
		&cobra.Group{ID: "songs", Title: "Songs:"},
		&cobra.Group{ID: "playlist", Title: "Playlist:"},
		&cobra.Group{ID: "play", Title: "Playback:"},
		&cobra.Group{ID: "echonest", Title: "Taste profile:"},
		&cobra.Group{ID: "library", Title: "Library:"},
	)
	root.SetHelpCommandGroupID("library")

	s.addLibraryCommands(root)
	s.addPlaybackCommands(root)
	s.addEchonestCommands(root)

	exit := func(*cobra.Command, []string) error { return ErrExit }
	root.AddCommand(
		&cobra.Command{Use: "exit", Short: "Leave the shell", Aliases: []string{"quit"}, RunE: exit},
	)
	return root
}

func (s *Shell) printWelcome() {
	if s.json {
		return
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "For a quick start, try play_album. Type help for the command list.")
	fmt.Fprintln(s.out)
}
