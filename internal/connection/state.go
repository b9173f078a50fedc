package connection

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
)

// State is the health of a connection.
type State int

const (
	StateOK            State = 0
	StateTypeMismatch  State = 1
	StateInputMissing  State = 2
	StateOutputMissing State = 3
	// StateNotFound means the connection is not part of the graph.
	StateNotFound State = 100
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateTypeMismatch:
		return "type_mismatch"
	case StateInputMissing:
		return "input_missing"
	case StateOutputMissing:
		return "output_missing"
	case StateNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Resolver re-resolves connection endpoints against live node state.
type Resolver interface {
	NodeExists(ctx context.Context, h node.Handle) bool
	OutputType(ctx context.Context, h node.Handle, output string) (datatype.DataType, bool)
	InputType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool)
	CanConnectTypes(ctx context.Context, from, to datatype.DataType) bool
}

// Classify computes the state of c. present tells whether c is part of the
// graph's connection set. Checks run in a fixed order: presence, output,
// input, then type compatibility. Nothing is mutated.
func Classify(ctx context.Context, c Connection, present bool, r Resolver) State {
	if !present {
		return StateNotFound
	}

	if c.Kind == KindSequence {
		if !r.NodeExists(ctx, c.FromNode) {
			return StateOutputMissing
		}
		if !r.NodeExists(ctx, c.ToNode) {
			return StateInputMissing
		}
		return StateOK
	}

	fromType, ok := r.OutputType(ctx, c.FromNode, c.FromOutput)
	if !ok {
		return StateOutputMissing
	}
	toType, ok := r.InputType(ctx, c.ToNode, c.ToInput)
	if !ok {
		return StateInputMissing
	}
	if !r.CanConnectTypes(ctx, fromType, toType) {
		return StateTypeMismatch
	}
	return StateOK
}
