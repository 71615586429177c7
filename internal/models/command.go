package models

import "fmt"

// CommandKind tags the variant of a Command.
type CommandKind int

// Command kinds emitted by the algorithm hooks.
const (
	CommandColour CommandKind = iota + 1
	CommandTraverse
)

// String returns the protocol verb for the kind.
func (k CommandKind) String() string {
	switch k {
	case CommandColour:
		return "colour"
	case CommandTraverse:
		return "traverse"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CommandKind) MarshalText() ([]byte, error) {
	if k != CommandColour && k != CommandTraverse {
		return nil, fmt.Errorf("unknown command kind %d", int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CommandKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "colour":
		*k = CommandColour
	case "traverse":
		*k = CommandTraverse
	default:
		return fmt.Errorf("unknown command kind %q", string(b))
	}

	return nil
}

// Command is one visualization instruction extracted from algorithm output.
// Second is only meaningful for traverse commands.
type Command struct {
	Kind        CommandKind `json:"kind"`
	Node        NodeID      `json:"node"`
	Second      NodeID      `json:"second,omitempty"`
	Color       string      `json:"color"`
	Description string      `json:"description,omitempty"`
}

// Colour builds a colour command.
func Colour(node NodeID, color string) Command {
	return Command{Kind: CommandColour, Node: node, Color: color}
}

// Traverse builds a traverse command.
func Traverse(from, to NodeID, color string) Command {
	return Command{Kind: CommandTraverse, Node: from, Second: to, Color: color}
}

// WithDescription returns a copy of the command carrying a step description.
func (c Command) WithDescription(desc string) Command {
	c.Description = desc
	return c
}

// String renders the command for logs.
func (c Command) String() string {
	if c.Kind == CommandTraverse {
		return fmt.Sprintf("traverse %d->%d %s", c.Node, c.Second, c.Color)
	}

	return fmt.Sprintf("colour %d %s", c.Node, c.Color)
}
