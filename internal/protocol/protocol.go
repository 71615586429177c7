// Package protocol decodes the line-oriented visualization protocol printed
// by algorithm runs into ordered commands.
//
// A protocol line has the form
//
//	__GRAPH__ colour <node> [color]
//	__GRAPH__ traverse <from> <to> [color]
//
// Every other non-blank line is free text and becomes the description of the
// next command.
package protocol

import (
	"strconv"
	"strings"

	"github.com/algocanvas/algocanvas/internal/models"
)

// Prefix marks a protocol line.
const Prefix = "__GRAPH__"

// Default colors for commands that omit one.
const (
	VisitedColor = "red"
	EdgeColor    = "blue"
)

// Extract scans text line by line and returns the commands in input order.
// Malformed protocol lines are skipped.
func Extract(text string) []models.Command {
	cmds := []models.Command{}

	var pending string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if !IsProtocolLine(line) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				pending = trimmed
			}

			continue
		}

		cmd, ok := ParseLine(line)
		if !ok {
			continue
		}

		if pending != "" {
			cmd = cmd.WithDescription(pending)
			pending = ""
		}

		cmds = append(cmds, cmd)
	}

	return cmds
}

// IsProtocolLine reports whether the first field of line is the protocol prefix.
func IsProtocolLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == Prefix
}

// ParseLine decodes a single protocol line. The returned command carries no
// description.
func ParseLine(line string) (models.Command, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != Prefix {
		return models.Command{}, false
	}

	args := fields[2:]

	switch fields[1] {
	case "colour":
		node, ok := parseID(args[0])
		if !ok {
			return models.Command{}, false
		}

		return models.Colour(node, colorArg(args, 1, VisitedColor)), true

	case "traverse":
		if len(args) < 2 {
			return models.Command{}, false
		}

		from, okFrom := parseID(args[0])
		to, okTo := parseID(args[1])

		if !okFrom || !okTo {
			return models.Command{}, false
		}

		return models.Traverse(from, to, colorArg(args, 2, EdgeColor)), true

	default:
		return models.Command{}, false
	}
}

// Format renders cmd as the protocol line that would produce it.
func Format(cmd models.Command) string {
	switch cmd.Kind {
	case models.CommandTraverse:
		return Prefix + " traverse " + cmd.Node.String() + " " + cmd.Second.String() + " " + cmd.Color
	default:
		return Prefix + " colour " + cmd.Node.String() + " " + cmd.Color
	}
}

// parseID accepts any integer. Ids the graph does not know, such as the -1
// parent sentinel used by traversal templates, are resolved at playback time.
func parseID(s string) (models.NodeID, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return models.NodeID(n), true
}

func colorArg(args []string, i int, fallback string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}

	return fallback
}
