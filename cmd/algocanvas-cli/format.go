package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	info   = color.New(color.FgCyan)
	warn   = color.New(color.FgYellow)
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	render := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		return strings.Join(parts, "  ")
	}

	fmt.Println(subtle.Sprint(render(headers)))
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	fmt.Println(subtle.Sprint(render(seps)))
	for _, row := range rows {
		fmt.Println(render(row))
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		// Table output needs column knowledge; callers without it get JSON.
		formatJSON(v)
	}
}

// statusIcon renders a pass/fail mark.
func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}

// stateColor highlights a playback state.
func stateColor(state string) string {
	switch state {
	case "running":
		return good.Sprint(state)
	case "paused":
		return warn.Sprint(state)
	case "finished":
		return info.Sprint(state)
	default:
		return state
	}
}

// playbackLine is the one-line status summary printed by playback commands.
func playbackLine(state string, cursor, total int, speedMS int64, desc string) string {
	line := fmt.Sprintf("%s %d/%d @ %dms", stateColor(state), cursor, total, speedMS)
	if desc != "" {
		line += "  " + subtle.Sprint(desc)
	}
	return line
}
