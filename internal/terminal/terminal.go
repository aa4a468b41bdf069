package terminal

import "os"

type Capabilities struct {
	SupportsRGB bool
	TermProgram string
}

func DetectCapabilities() *Capabilities {
	caps := &Capabilities{
		SupportsRGB: true,
	}

	caps.TermProgram = os.Getenv("TERM_PROGRAM")

	// dumb terminals get plain output
	if os.Getenv("TERM") == "dumb" || os.Getenv("NO_COLOR") != "" {
		caps.SupportsRGB = false
	}

	return caps
}

// Reset restores the terminal after the alt-screen TUI exits, also on
// abnormal shutdown paths where bubbletea never gets to clean up.
func Reset() {
	os.Stdout.WriteString("\033[?25h")
	os.Stdout.WriteString("\033[0m")
	os.Stdout.WriteString("\033[?1049l")
	os.Stdout.WriteString("\033[?1000l")
	os.Stdout.WriteString("\033[?1002l")
	os.Stdout.WriteString("\033[?1003l")
	os.Stdout.WriteString("\033[?1006l")
	os.Stdout.Sync()
}
