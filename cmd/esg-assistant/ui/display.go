package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Table displays data in a formatted table.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
}

// Box displays text in a box with borders. Long lines are wrapped to width.
func Box(title string, content string, width int) {
	if width < 40 {
		width = 40
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		lines = append(lines, wrap(line, width)...)
	}

	fmt.Fprintf(stdout, "┌%s┐\n", strings.Repeat("─", width+2))
	if title != "" {
		fmt.Fprintf(stdout, "│ %s │\n", pad(color.New(color.Bold).Sprint(title), runewidth.StringWidth(title), width))
		fmt.Fprintf(stdout, "├%s┤\n", strings.Repeat("─", width+2))
	}
	for _, line := range lines {
		fmt.Fprintf(stdout, "│ %s │\n", pad(line, runewidth.StringWidth(line), width))
	}
	fmt.Fprintf(stdout, "└%s┘\n", strings.Repeat("─", width+2))
}

// Banner prints the chat welcome header.
func Banner(title string, lines ...string) {
	color.New(color.FgGreen, color.Bold).Fprintln(stdout, title)
	fmt.Fprintln(stdout, strings.Repeat("=", 40))
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout)
}

// KeyValue prints an aligned key/value pair.
func KeyValue(key, value string) {
	fmt.Fprintf(stdout, "  %s %s\n", color.New(color.Faint).Sprintf("%-12s", key+":"), value)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

func pad(s string, visible, width int) string {
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// wrap breaks line into pieces no wider than width, preferring spaces.
func wrap(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		for runewidth.StringWidth(word) > width {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			head := runewidth.Truncate(word, width, "")
			out = append(out, head)
			word = word[len(head):]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case runewidth.StringWidth(current.String())+1+runewidth.StringWidth(word) <= width:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			out = append(out, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
