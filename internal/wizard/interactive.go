package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// PlaylistAction is the answer to a playlist proposal.
type PlaylistAction int

const (
	ActionCancel PlaylistAction = iota
	ActionPlay
	ActionRegenerate
)

func (a PlaylistAction) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionRegenerate:
		return "regenerate"
	default:
		return "cancel"
	}
}

// ParseAction maps a typed answer to an action: p plays, r regenerates and
// anything else cancels.
func ParseAction(s string) PlaylistAction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "play":
		return ActionPlay
	case "r", "regenerate":
		return ActionRegenerate
	default:
		return ActionCancel
	}
}

// Interactive asks the user questions. With a terminal it shows huh forms;
// otherwise it prints the question and reads one line from in.
type Interactive struct {
	enabled bool
	in      *bufio.Reader
	out     io.Writer
}

// NewInteractive creates a prompter reading answers from in. Pass the same
// reader the caller reads commands from so buffered input is not lost.
func NewInteractive(in *bufio.Reader, out io.Writer) *Interactive {
	return &Interactive{
		enabled: true,
		in:      in,
		out:     out,
	}
}

// SetEnabled enables or disables the form based prompts.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if form based prompts are available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptPlaylistAction asks what to do with a proposed playlist.
func (i *Interactive) PromptPlaylistAction() (PlaylistAction, error) {
	if !i.CanInteract() {
		answer, err := i.ask("What now? (P)lay or (R)egenerate? Anything else to cancel: ")
		if err != nil {
			return ActionCancel, err
		}
		return ParseAction(answer), nil
	}

	action := ActionPlay
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[PlaylistAction]().
				Title("What now?").
				Options(
					huh.NewOption("Play", ActionPlay),
					huh.NewOption("Regenerate", ActionRegenerate),
					huh.NewOption("Cancel", ActionCancel),
				).
				Value(&action),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ActionCancel, nil
		}
		return ActionCancel, err
	}
	return action, nil
}

const deleteWarning = "All favorite, ban and skip data will be lost. " +
	"Playcount and rating data are safe in your Kodi library."

// ConfirmDeleteProfile asks before deleting the taste profile. Only an
// explicit yes confirms.
func (i *Interactive) ConfirmDeleteProfile(name string) (bool, error) {
	if !i.CanInteract() {
		fmt.Fprintf(i.out, "\nWARNING: you are about to delete the taste profile %q.\n%s\n\n", name, deleteWarning)
		answer, err := i.ask("Are you sure (Y/c)? ")
		if err != nil {
			return false, err
		}
		return strings.TrimSpace(answer) == "Y", nil
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete taste profile %q?", name)).
				Description(deleteWarning).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// ask prints question and reads the answer line. EOF counts as an empty answer.
func (i *Interactive) ask(question string) (string, error) {
	fmt.Fprint(i.out, question)
	line, err := i.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
