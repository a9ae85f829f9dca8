package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette for the FarsiTranscriber TUI
var (
	ColorPrimary   = lipgloss.Color("#0D9488") // Teal - main accent
	ColorSecondary = lipgloss.Color("#F59E0B") // Amber - secondary accent

	ColorSuccess = lipgloss.Color("#22C55E") // Green
	ColorError   = lipgloss.Color("#EF4444") // Red

	ColorText   = lipgloss.Color("#F8FAFC") // Bright white
	ColorMuted  = lipgloss.Color("#94A3B8") // Slate gray
	ColorSubtle = lipgloss.Color("#64748B") // Darker gray
)

var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

const logoASCII = `
  __                _ _                                  _ _
 / _| __ _ _ __ ___(_) |_ _ __ __ _ _ __  ___  ___ _ __ (_) |__   ___ _ __
| |_ / _` + "`" + ` | '__/ __| | __| '__/ _` + "`" + ` | '_ \/ __|/ __| '__| | | '_ \ / _ \ '__|
|  _| (_| | |  \__ \ | |_| | | (_| | | | \__ \ (__| |  | | | |_) |  __/ |
|_|  \__,_|_|  |___/_|\__|_|  \__,_|_| |_|___/\___|_|  |_|_|_.__/ \___|_|`

// Logo returns the styled ASCII banner
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}

func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
