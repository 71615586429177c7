package canvas

import (
	"fmt"

	"github.com/algocanvas/algocanvas/internal/models"
)

// ActionKind tags what a pointer or control event did to the canvas.
type ActionKind int

// Action kinds. ActionNone means the event changed nothing observable.
const (
	ActionNone ActionKind = iota
	ActionHover
	ActionSelect
	ActionDeselect
	ActionDragMove
	ActionDragEnd
	ActionNodeAdded
	ActionEdgeSourceSelected
	ActionEdgeAdded
	ActionEdgeExists
	ActionEdgeCancelled
	ActionNodeDeleted
	ActionEdgeDeleted
	ActionModeChanged
	ActionCleared
)

var actionNames = [...]string{
	ActionNone:               "none",
	ActionHover:              "hover",
	ActionSelect:             "select",
	ActionDeselect:           "deselect",
	ActionDragMove:           "dragMove",
	ActionDragEnd:            "dragEnd",
	ActionNodeAdded:          "nodeAdded",
	ActionEdgeSourceSelected: "edgeSourceSelected",
	ActionEdgeAdded:          "edgeAdded",
	ActionEdgeExists:         "edgeExists",
	ActionEdgeCancelled:      "edgeCancelled",
	ActionNodeDeleted:        "nodeDeleted",
	ActionEdgeDeleted:        "edgeDeleted",
	ActionModeChanged:        "modeChanged",
	ActionCleared:            "cleared",
}

// String implements fmt.Stringer.
func (k ActionKind) String() string {
	if k >= 0 && int(k) < len(actionNames) {
		return actionNames[k]
	}

	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActionKind) UnmarshalText(b []byte) error {
	for i, name := range actionNames {
		if name == string(b) {
			*k = ActionKind(i)
			return nil
		}
	}

	return fmt.Errorf("unknown action kind %q", string(b))
}

// Action describes the outcome of one controller call. Only the fields that
// belong to Kind are set.
type Action struct {
	Kind ActionKind      `json:"kind"`
	Node models.NodeID   `json:"node,omitempty"`
	Edge *models.EdgeRef `json:"edge,omitempty"`
	Mode models.Mode     `json:"mode"`
}

// Mutates reports whether the action changed the graph model itself, as
// opposed to transient interaction state.
func (a Action) Mutates() bool {
	switch a.Kind {
	case ActionDragMove, ActionNodeAdded, ActionEdgeAdded,
		ActionNodeDeleted, ActionEdgeDeleted, ActionCleared:
		return true
	default:
		return false
	}
}

// String renders the action for logs.
func (a Action) String() string {
	switch {
	case a.Edge != nil:
		return fmt.Sprintf("%s %s", a.Kind, a.Edge)
	case a.Node != 0:
		return fmt.Sprintf("%s %d", a.Kind, a.Node)
	default:
		return a.Kind.String()
	}
}
