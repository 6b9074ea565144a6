package main

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestColumnsIgnoreEscapes(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	styled := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E")).Render("[x]")
	if !strings.Contains(styled, "\x1b[") {
		t.Fatalf("expected escape codes in %q", styled)
	}

	lines := columns([][]string{
		{styled, "Read", "a"},
		{"[ ]", "Exercise", "b"},
	}, 2)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if w0, w1 := lipgloss.Width(lines[0]), lipgloss.Width(lines[1]); w0 != w1 {
		t.Errorf("rows should have equal visible width, got %d and %d:\n%q\n%q", w0, w1, lines[0], lines[1])
	}
	if got := lines[1]; got != "[ ]  Exercise  b" {
		t.Errorf("unexpected plain row %q", got)
	}
}
