package models

import (
	"encoding/json"
	"fmt"
)

// GraphFile is the persisted JSON document for a graph: {"nodes":[...],"edges":[...]}.
type GraphFile struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NewGraphFile snapshots a graph into its persisted form.
func NewGraphFile(g *Graph) *GraphFile {
	c := g.Clone()

	return &GraphFile{Nodes: c.Nodes, Edges: c.Edges}
}

// DecodeGraphFile parses and validates a graph document. Both top-level keys
// must be present; an empty array is fine, a missing or null key is not.
func DecodeGraphFile(data []byte) (*GraphFile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraphFile, err)
	}

	for _, key := range []string{"nodes", "edges"} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			return nil, ErrMissingKey(key)
		}
	}

	var f GraphFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraphFile, err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks ids, endpoints and weights without building a graph.
func (f *GraphFile) Validate() error {
	if f.Nodes == nil {
		return ErrMissingKey("nodes")
	}

	if f.Edges == nil {
		return ErrMissingKey("edges")
	}

	_, err := f.Graph()

	return err
}

// Graph builds a fresh Graph from the document, failing on the first
// inconsistency.
func (f *GraphFile) Graph() (*Graph, error) {
	g := NewGraph()

	for i, n := range f.Nodes {
		if err := g.InsertNode(n); err != nil {
			return nil, fmt.Errorf("%w: nodes[%d]: %w", ErrMalformedGraphFile, i, err)
		}
	}

	for i, e := range f.Edges {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: edges[%d]: negative weight", ErrMalformedGraphFile, i)
		}

		if err := g.InsertEdge(e); err != nil {
			return nil, fmt.Errorf("%w: edges[%d]: %w", ErrMalformedGraphFile, i, err)
		}
	}

	return g, nil
}
