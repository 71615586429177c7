package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph mutations.
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrSelfLoop      = errors.New("self-loops are not allowed")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrInvalidNodeID = errors.New("node id must be positive")
)

// Sentinel errors for persisted graph files.
var (
	ErrMalformedGraphFile = errors.New("malformed graph file")
	ErrInvalidMode        = errors.New("invalid interaction mode")
)

// ErrMissingKey returns an error for a required top-level key absent from a graph file.
func ErrMissingKey(key string) error {
	return fmt.Errorf("%w: missing %q", ErrMalformedGraphFile, key)
}
