package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// RenderMatrix lays out cells as right-aligned columns between bracket
// rails. Widths are display widths, so wide runes stay aligned. With
// styled set, the rails are dimmed.
func RenderMatrix(cells [][]string, styled bool) string {
	if len(cells) == 0 {
		return ""
	}
	widths := make([]int, 0, len(cells[0]))
	for _, row := range cells {
		for j, cell := range row {
			w := runewidth.StringWidth(cell)
			if j == len(widths) {
				widths = append(widths, w)
			} else {
				widths[j] = max(widths[j], w)
			}
		}
	}
	rail := lipgloss.NewStyle()
	if styled {
		rail = rail.Foreground(lipgloss.Color("8"))
	}

	var b strings.Builder
	for i, row := range cells {
		left, right := "│", "│"
		switch {
		case len(cells) == 1:
			left, right = "[", "]"
		case i == 0:
			left, right = "┌", "┐"
		case i == len(cells)-1:
			left, right = "└", "┘"
		}
		b.WriteString(rail.Render(left))
		for j, w := range widths {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			b.WriteByte(' ')
			b.WriteString(strings.Repeat(" ", w-runewidth.StringWidth(cell)))
			b.WriteString(cell)
		}
		b.WriteByte(' ')
		b.WriteString(rail.Render(right))
		b.WriteByte('\n')
	}
	return b.String()
}
