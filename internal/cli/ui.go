package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the preview title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks the selected row in the preview.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleLink renders URLs and listen addresses.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders paths and other literal values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)
	// StyleNumber renders dimensions and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	markOK      = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail    = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn    = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	markArrow   = StyleDim.Render("→")
	styleSpin   = lipgloss.NewStyle().Foreground(colorAccent)
	styleHit    = lipgloss.NewStyle().Foreground(colorOK)
	styleMiss   = lipgloss.NewStyle().Foreground(colorMuted)
	styleCmd    = lipgloss.NewStyle().Foreground(colorLink)
	statsJoiner = StyleDim.Render(" · ")
)

// =============================================================================
// Console
// =============================================================================

// console writes user-facing status lines. Logs go to the logger; this is
// for results the user asked for.
type console struct {
	w io.Writer
}

// ui returns the console for command output, defaulting to stdout.
func (c *CLI) ui() console {
	if c.Out == nil {
		return console{w: os.Stdout}
	}
	return console{w: c.Out}
}

func (p console) line(mark, format string, args ...any) {
	fmt.Fprintln(p.w, mark+" "+fmt.Sprintf(format, args...))
}

func (p console) success(format string, args ...any) { p.line(markOK, format, args...) }
func (p console) fail(format string, args ...any)    { p.line(markFail, format, args...) }
func (p console) info(format string, args ...any)    { p.line(markInfo, format, args...) }

func (p console) warn(format string, args ...any) {
	p.line(markWarn, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// detail prints an indented, muted line.
func (p console) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p console) file(path string) {
	fmt.Fprintln(p.w, "  "+markArrow+" "+StyleValue.Render(path))
}

// stats prints "N frames · M rows · W×H px · cached".
func (p console) stats(s layoutStats) {
	var parts []string
	if s.frames > 0 {
		parts = append(parts, StyleDim.Render(plural(s.frames, "frame")))
	}
	if s.rows > 0 {
		parts = append(parts, StyleDim.Render(plural(s.rows, "row")))
	}
	if s.width > 0 && s.height > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d×%d px", s.width, s.height)))
	}
	if s.cached {
		parts = append(parts, styleHit.Render("cached"))
	} else {
		parts = append(parts, styleMiss.Render("fresh"))
	}
	fmt.Fprintln(p.w, "  "+strings.Join(parts, statsJoiner))
}

// next suggests the follow-up command after a blank line.
func (p console) next(label, command string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, StyleDim.Render(label+":")+" "+styleCmd.Render(command))
}

// print writes pre-rendered output such as a table.
func (p console) print(s string) {
	fmt.Fprintln(p.w, s)
}

// layoutStats summarizes a computed gallery for the stats line.
type layoutStats struct {
	frames, rows  int
	width, height int
	cached        bool
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if stem, ok := strings.CutSuffix(noun, "y"); ok {
		return fmt.Sprintf("%d %sies", n, stem)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
