package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedParent marks a Parent value that matches no ID.
	ErrUnresolvedParent = errors.New("unresolved parent")

	// ErrCycle marks features whose parent links form a cycle.
	ErrCycle = errors.New("parent cycle")
)

// DiagnosticKind classifies a non-fatal structural problem.
type DiagnosticKind int

const (
	UnresolvedParent DiagnosticKind = iota
	Cycle
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnresolvedParent:
		return "unresolved_parent"
	case Cycle:
		return "cycle"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic describes a problem found while resolving parent links. The
// graph is still usable; callers decide whether to treat it as fatal.
type Diagnostic struct {
	Kind     DiagnosticKind
	UniqueID string
	Line     int
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

func (d Diagnostic) Unwrap() error {
	switch d.Kind {
	case UnresolvedParent:
		return ErrUnresolvedParent
	case Cycle:
		return ErrCycle
	}
	return nil
}

// Diagnostics returns the problems recorded while building.
func (g *Graph) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(g.diagnostics))
	copy(out, g.diagnostics)
	return out
}

// Err returns all diagnostics joined into one error, or nil.
func (g *Graph) Err() error {
	if len(g.diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(g.diagnostics))
	for i, d := range g.diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}
