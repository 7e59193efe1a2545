package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeNotFound matches any *NodeNotFoundError.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound matches any *EdgeNotFoundError.
	ErrEdgeNotFound = errors.New("edge not found")
)

// NodeNotFoundError reports an operation that required a node absent from the store.
type NodeNotFoundError struct {
	ID NodeID
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %d not found", e.ID)
}

func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// EdgeNotFoundError reports a RemoveEdge call that matched no entry.
type EdgeNotFoundError struct {
	Edge Edge
}

func (e *EdgeNotFoundError) Error() string {
	return fmt.Sprintf("edge %s not found", e.Edge)
}

func (e *EdgeNotFoundError) Is(target error) bool {
	return target == ErrEdgeNotFound
}
