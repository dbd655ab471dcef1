// Package style holds the colours and icons of vg's diagnostic output.
package style

import "github.com/charmbracelet/lipgloss"

// Colours.
var (
	Slate  = lipgloss.Color("#667085")
	Mist   = lipgloss.Color("#98A2B3")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "·"
)
