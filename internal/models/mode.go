package models

import "fmt"

// Mode is the active interaction behavior of the canvas.
type Mode int

// Interaction modes. Select is the zero value.
const (
	ModeSelect Mode = iota
	ModeAddNode
	ModeAddEdge
	ModeDelete
)

var modeNames = map[Mode]string{
	ModeSelect:  "select",
	ModeAddNode: "addNode",
	ModeAddEdge: "addEdge",
	ModeDelete:  "delete",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}

	return ModeSelect, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	name, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
