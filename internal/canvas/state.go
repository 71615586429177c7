package canvas

import "github.com/algocanvas/algocanvas/internal/models"

// InteractionState is the transient pointer state of a canvas. It is only
// changed by Controller methods and is reset on every mode change.
type InteractionState struct {
	Mode        models.Mode     `json:"mode"`
	Selected    *models.NodeID  `json:"selected,omitempty"`
	Hovered     *models.NodeID  `json:"hovered,omitempty"`
	HoveredEdge *models.EdgeRef `json:"hovered_edge,omitempty"`
	Dragging    *models.NodeID  `json:"dragging,omitempty"`
}

// clone returns a copy that shares no pointers with s.
func (s InteractionState) clone() InteractionState {
	out := InteractionState{Mode: s.Mode}
	out.Selected = copyPtr(s.Selected)
	out.Hovered = copyPtr(s.Hovered)
	out.HoveredEdge = copyPtr(s.HoveredEdge)
	out.Dragging = copyPtr(s.Dragging)

	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func idPtr(id models.NodeID) *models.NodeID { return &id }
