package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Versions render green, conflict rewrites amber, and
// secondary detail in dim gray so the coordinates themselves stay the
// brightest thing on screen.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders resolved coordinates as headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text: tree glyphs, annotations, counts.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for artifact coordinates and data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for resolution warnings surfaced after a result.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleVersion  = lipgloss.NewStyle().Foreground(colorGreen)
	styleConflict = lipgloss.NewStyle().Foreground(colorYellow)
	styleScope    = lipgloss.NewStyle().Foreground(colorDim)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(14)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printSuccess prints a checkmarked status line.
func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints one resolution warning.
func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a neutral status line.
func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a file the command produced.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one labeled field of a model summary.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a resolution: artifact and edge counts, plus the
// warning count when the sink caught anything.
func printStats(nodeCount, edgeCount, errorCount int) {
	parts := []string{
		fmt.Sprintf("%d artifacts", nodeCount),
		fmt.Sprintf("%d edges", edgeCount),
	}
	if errorCount > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warnings", errorCount)))
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}
