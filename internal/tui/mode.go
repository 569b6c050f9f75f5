package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how human-readable output is presented.
type OutputMode int

const (
	// OutputModePlain is uncolored tab-aligned text, for pipes and CI logs.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is lipgloss-styled text on a terminal.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "plain"
	}
}

// DetectOutputMode picks a mode from the flags and the environment.
// Interactive mode is only granted when requested and both stdin and stdout
// are terminals. NO_COLOR, TERM=dumb and CI force plain output.
func DetectOutputMode(interactive, noColor, plain bool) OutputMode {
	return detectOutputMode(interactive, noColor, plain, isTerminal(os.Stdout), isTerminal(os.Stdin), os.LookupEnv)
}

func detectOutputMode(
	interactive, noColor, plain, stdoutTTY, stdinTTY bool,
	lookupEnv func(string) (string, bool),
) OutputMode {
	if plain || noColor || !stdoutTTY {
		return OutputModePlain
	}
	if _, ok := lookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if v, ok := lookupEnv("TERM"); ok && v == "dumb" {
		return OutputModePlain
	}
	if v, ok := lookupEnv("CI"); ok && v != "" && v != "false" {
		return OutputModePlain
	}
	if interactive && stdinTTY {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
