package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// habitColors maps the stored color tags to terminal colors
var habitColors = map[string]lipgloss.Color{
	"bg-blue-500":   "#3B82F6",
	"bg-green-500":  "#22C55E",
	"bg-red-500":    "#EF4444",
	"bg-yellow-500": "#EAB308",
	"bg-purple-500": "#A855F7",
	"bg-pink-500":   "#EC4899",
	"bg-indigo-500": "#6366F1",
	"bg-orange-500": "#F97316",
	"bg-teal-500":   "#14B8A6",
}

type styles struct {
	renderer *lipgloss.Renderer

	title   lipgloss.Style
	header  lipgloss.Style
	done    lipgloss.Style
	pending lipgloss.Style
	dim     lipgloss.Style
	bar     lipgloss.Style
	warning lipgloss.Style
}

// newStyles builds the output styles for w. With noColor every style
// renders plain text.
func newStyles(w io.Writer, noColor bool) styles {
	var opts []termenv.OutputOption
	if noColor {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1")),
		header:   r.NewStyle().Bold(true),
		done:     r.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		pending:  r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		dim:      r.NewStyle().Faint(true),
		bar:      r.NewStyle().Foreground(lipgloss.Color("#6366F1")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("#EAB308")),
	}
}

// swatch renders a small block in the habit's color
func (s styles) swatch(color string) string {
	c, ok := habitColors[color]
	if !ok {
		return "■"
	}
	return s.renderer.NewStyle().Foreground(c).Render("■")
}

// check renders the completion mark for a habit
func (s styles) check(done bool) string {
	if done {
		return s.done.Render("[x]")
	}
	return s.pending.Render("[ ]")
}

// trendBar draws count out of total as a bar of the given width
func (s styles) trendBar(count, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := (count*width + total/2) / total
	if filled > width {
		filled = width
	}
	return s.bar.Render(strings.Repeat("█", filled)) + s.dim.Render(strings.Repeat("·", width-filled))
}

// columns lays out rows of possibly styled cells. Widths are measured with
// lipgloss.Width, which skips ANSI escapes.
func columns(rows [][]string, gap int) []string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+gap))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
