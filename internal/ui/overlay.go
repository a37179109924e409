// Package ui holds layout helpers shared by the views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/notry/internal/styles"
)

// DimStyle greys out the content behind an overlay. Existing ANSI codes are
// stripped first since faint does not combine with colors in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(styles.TextSubtle)

// blockWidth returns the widest visible line.
func blockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}

func dim(s string) string {
	if s == "" {
		return ""
	}
	return DimStyle.Render(s)
}

// spliceRow places box at column x of the plain background line bg,
// dimming what remains visible on either side.
func spliceRow(bg, box string, x, boxWidth int) string {
	plain := ansi.Strip(bg)
	plainWidth := ansi.StringWidth(plain)

	var b strings.Builder
	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		b.WriteString(dim(left))
		if pad := x - ansi.StringWidth(left); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	b.WriteString(box)
	if pad := boxWidth - ansi.StringWidth(box); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if end := x + boxWidth; plainWidth > end {
		b.WriteString(dim(ansi.Cut(plain, end, plainWidth)))
	}
	return b.String()
}

// Overlay centers box over background within a width x height area. The
// background stays visible, dimmed, around the box.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	fg := strings.Split(box, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}

	boxWidth := blockWidth(fg)
	x := max(0, (width-boxWidth)/2)
	y := max(0, (height-len(fg))/2)

	rows := make([]string, height)
	for i := range rows {
		if j := i - y; j >= 0 && j < len(fg) {
			rows[i] = spliceRow(bg[i], fg[j], x, boxWidth)
		} else {
			rows[i] = dim(ansi.Strip(bg[i]))
		}
	}
	return strings.Join(rows, "\n")
}
