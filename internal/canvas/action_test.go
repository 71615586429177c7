package canvas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/models"
)

func TestActionJSON(t *testing.T) {
	in := canvas.Action{
		Kind: canvas.ActionEdgeAdded,
		Edge: &models.EdgeRef{From: 1, To: 2},
		Mode: models.ModeAddEdge,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"edgeAdded"`)
	assert.Contains(t, string(data), `"mode":"addEdge"`)

	var out canvas.Action
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestActionKindUnknownText(t *testing.T) {
	var k canvas.ActionKind
	assert.Error(t, k.UnmarshalText([]byte("teleport")))
}
