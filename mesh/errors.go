package mesh

import (
	"errors"
	"fmt"
)

// Precondition violations, returned to the caller that detected them
var (
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrDisabled        = errors.New("entity is disabled")
	ErrArity           = errors.New("wrong number of vertices for cell shape")
	ErrDuplicateVertex = errors.New("cell repeats a vertex")
	ErrNoGeometry      = errors.New("mesh does not keep vertex coordinates")
	ErrInconsistent    = errors.New("mesh adjacency is inconsistent")
)

// ConsistencyError reports adjacency corruption detected while stitching or
// unlinking cells. It is raised with panic: a half-stitched mesh must not be
// used further.
type ConsistencyError struct {
	Op     string
	Cell   int
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("mesh: %s on cell %d: %s", e.Op, e.Cell, e.Detail)
}

func (e *ConsistencyError) Unwrap() error { return ErrInconsistent }

func fatalf(op string, cell int, format string, args ...any) {
	panic(&ConsistencyError{Op: op, Cell: cell, Detail: fmt.Sprintf(format, args...)})
}
