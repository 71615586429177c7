// Package templates is the catalog of starter algorithm sources.
package templates

import (
	"embed"
	"strings"
)

//go:embed python/*.py
var sources embed.FS

// Fallback is the source used for a name that is not in the catalog.
const Fallback = "# Write your algorithm here"

// DefaultName is the template a new session starts with.
const DefaultName = "custom"

// Template is one starter algorithm.
type Template struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
}

// catalog keeps the display order of the selector.
var catalog = []Template{
	{Name: "custom", Title: "Empty"},
	{Name: "bfs", Title: "Breadth First Search"},
	{Name: "dfs", Title: "Depth First Search (Recursive)"},
	{Name: "dfs2", Title: "Depth First Search (Iterative)"},
	{Name: "dijkstra", Title: "Dijkstra's Algorithm"},
	{Name: "prim", Title: "Prim's Algorithm"},
	{Name: "bellman_ford", Title: "Bellman-Ford Algorithm"},
	{Name: "order_traversal", Title: "Tree Order Traversal"},
}

// List returns every template without its source, in display order.
func List() []Template {
	return append([]Template(nil), catalog...)
}

// Names returns the template names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, t := range catalog {
		names[i] = t.Name
	}

	return names
}

// Get returns the named template with its source.
func Get(name string) (Template, bool) {
	for _, t := range catalog {
		if t.Name != name {
			continue
		}

		data, err := sources.ReadFile("python/" + name + ".py")
		if err != nil {
			return Template{}, false
		}

		t.Source = string(data)

		return t, true
	}

	return Template{}, false
}

// Source returns the source for name, or Fallback when it is unknown.
func Source(name string) string {
	if t, ok := Get(strings.TrimSpace(name)); ok {
		return t.Source
	}

	return Fallback
}

// Default returns the template a new session starts with.
func Default() Template {
	t, _ := Get(DefaultName)
	return t
}
