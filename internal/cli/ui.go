package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pyimporttime/pkg/core/render/icicle/styles"
)

// statusOut receives every status line. Commands write their data (JSON,
// tables, tree dumps) to stdout, so status goes to stderr to keep pipes clean.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // primary
	colorGreen = lipgloss.Color("35")  // success, cache hits
	colorAmber = lipgloss.Color("214") // warnings, slow modules
	colorRed   = lipgloss.Color("167") // errors
	colorBlue  = lipgloss.Color("75")  // commands
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings such as the tree browser header.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and names.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for counts and timings in status lines.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh   = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func status(icon string, format string, args ...any) {
	fmt.Fprintln(statusOut, icon+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	status(styleIconSuccess.Render(iconSuccess), format, args...)
}

func printError(format string, args ...any) {
	status(styleIconError.Render(iconError), format, args...)
}

func printWarning(format string, args ...any) {
	status(StyleWarning.Render(iconWarning), "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(styleIconInfo.Render(iconInfo), format, args...)
}

// printDetail prints an indented, dimmed line below a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut)
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Trace Summary
// =============================================================================

// traceStats summarizes a parsed trace for the status line.
type traceStats struct {
	records  int
	maxDepth int
	total    time.Duration
}

func printStats(s traceStats, cached bool) {
	fmt.Fprintln(statusOut, statsLine(s, cached))
}

// statsLine renders "N modules · depth D · X ms · cached|fresh".
func statsLine(s traceStats, cached bool) string {
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleNumber.Render(fmt.Sprint(s.records)) + StyleDim.Render(" modules"),
		StyleDim.Render("depth ") + StyleNumber.Render(fmt.Sprint(s.maxDepth+1)),
		StyleNumber.Render(styles.Millis(s.total)) + StyleDim.Render(" ms"),
		styleFresh.Render("fresh"),
	}
	if cached {
		parts[3] = styleCached.Render("cached")
	}
	return "  " + strings.Join(parts, sep)
}
