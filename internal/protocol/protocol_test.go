package protocol_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/protocol"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.Command
		ok   bool
	}{
		{name: "colour default", line: "__GRAPH__ colour 3", want: models.Colour(3, "red"), ok: true},
		{name: "colour explicit", line: "__GRAPH__ colour 3 green", want: models.Colour(3, "green"), ok: true},
		{name: "traverse default", line: "__GRAPH__ traverse 1 2", want: models.Traverse(1, 2, "blue"), ok: true},
		{name: "traverse explicit", line: "__GRAPH__ traverse 1 2 orange", want: models.Traverse(1, 2, "orange"), ok: true},
		{name: "negative parent", line: "__GRAPH__ traverse -1 0", want: models.Traverse(-1, 0, "blue"), ok: true},
		{name: "extra whitespace", line: "  __GRAPH__   colour\t4  ", want: models.Colour(4, "red"), ok: true},
		{name: "unknown verb", line: "__GRAPH__ paint 1 red"},
		{name: "colour missing id", line: "__GRAPH__ colour"},
		{name: "colour bad id", line: "__GRAPH__ colour x"},
		{name: "traverse missing to", line: "__GRAPH__ traverse 1"},
		{name: "traverse bad to", line: "__GRAPH__ traverse 1 y"},
		{name: "no prefix", line: "colour 1"},
		{name: "glued prefix", line: "__GRAPH__colour 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := protocol.ParseLine(tc.line)
			assert.Equal(t, tc.ok, ok)

			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestExtractAttachesDescription(t *testing.T) {
	cmds := protocol.Extract("Visiting the root\n__GRAPH__ colour 3 red")

	require.Len(t, cmds, 1)
	assert.Equal(t, models.Colour(3, "red").WithDescription("Visiting the root"), cmds[0])
}

func TestExtractConsecutiveProtocolLines(t *testing.T) {
	cmds := protocol.Extract("step one\n__GRAPH__ colour 1\n__GRAPH__ colour 2\n")

	require.Len(t, cmds, 2)
	assert.Equal(t, "step one", cmds[0].Description)
	assert.Empty(t, cmds[1].Description)
}

func TestExtractLastDescriptionWins(t *testing.T) {
	cmds := protocol.Extract("first\n\n   second  \n__GRAPH__ colour 1")

	require.Len(t, cmds, 1)
	assert.Equal(t, "second", cmds[0].Description)
}

func TestExtractSkipsMalformedKeepingDescription(t *testing.T) {
	cmds := protocol.Extract("about to colour\n__GRAPH__ paint 1\n__GRAPH__ colour 1")

	require.Len(t, cmds, 1)
	assert.Equal(t, "about to colour", cmds[0].Description)
}

func TestExtractCRLF(t *testing.T) {
	cmds := protocol.Extract("note\r\n__GRAPH__ traverse 1 2\r\n")

	require.Len(t, cmds, 1)
	assert.Equal(t, models.Traverse(1, 2, "blue").WithDescription("note"), cmds[0])
}

func TestExtractPreservesOrder(t *testing.T) {
	lines := []string{
		"__GRAPH__ colour 1",
		"__GRAPH__ traverse 1 2",
		"__GRAPH__ colour 2",
	}

	forward := protocol.Extract(strings.Join(lines, "\n"))

	lines[0], lines[2] = lines[2], lines[0]
	swapped := protocol.Extract(strings.Join(lines, "\n"))

	require.Len(t, forward, 3)
	require.Len(t, swapped, 3)
	assert.Equal(t, forward[0], swapped[2])
	assert.Equal(t, forward[1], swapped[1])
	assert.Equal(t, forward[2], swapped[0])
}

func TestExtractEmpty(t *testing.T) {
	assert.Empty(t, protocol.Extract(""))
	assert.NotNil(t, protocol.Extract("just text"))
}

func TestFormatRoundTrip(t *testing.T) {
	for _, cmd := range []models.Command{
		models.Colour(7, "red"),
		models.Traverse(2, 9, "blue"),
	} {
		got, ok := protocol.ParseLine(protocol.Format(cmd))
		require.True(t, ok)
		assert.Equal(t, cmd, got)
	}
}

func TestPreambleDefinesHooks(t *testing.T) {
	assert.Contains(t, protocol.Preamble, "def colour(u, color=None):")
	assert.Contains(t, protocol.Preamble, "def traverse(u, v, color=None):")
	assert.Contains(t, protocol.Preamble, protocol.Prefix)
}
