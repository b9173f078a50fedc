// Package connection describes a single wire between two nodes and classifies
// its health against the current state of a graph.
//
// A Connection is an immutable comparable value: two connections are equal
// when all five fields match, so == is the equality used for deduplication
// and removal by value.
package connection

import (
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/node"
)

// Kind distinguishes data wires from control-flow wires.
type Kind int

const (
	// KindData carries a value from an output to an input.
	KindData Kind = 0
	// KindSequence orders execution between two nodes.
	KindSequence Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Connection is one wire from an output of FromNode to an input of ToNode.
type Connection struct {
	FromNode   node.Handle
	FromOutput string
	ToNode     node.Handle
	ToInput    string
	Kind       Kind
}

// Invalid is the zero connection: both endpoints use node.InvalidHandle.
var Invalid = Connection{FromNode: node.InvalidHandle, ToNode: node.InvalidHandle}

// Data returns a data connection.
func Data(from node.Handle, output string, to node.Handle, input string) Connection {
	return Connection{FromNode: from, FromOutput: output, ToNode: to, ToInput: input, Kind: KindData}
}

// Sequence returns a control-flow connection. Pin names are optional.
func Sequence(from node.Handle, output string, to node.Handle, input string) Connection {
	return Connection{FromNode: from, FromOutput: output, ToNode: to, ToInput: input, Kind: KindSequence}
}

// IsValid reports whether both endpoints are real handles and, for data
// wires, the output is named.
func (c Connection) IsValid() bool {
	if !c.FromNode.IsValid() || !c.ToNode.IsValid() {
		return false
	}
	switch c.Kind {
	case KindData:
		return c.FromOutput != ""
	case KindSequence:
		return true
	default:
		return false
	}
}

// References reports whether either endpoint is h.
func (c Connection) References(h node.Handle) bool {
	return c.FromNode == h || c.ToNode == h
}

func (c Connection) String() string {
	return fmt.Sprintf("%s:%s.%s -> %s.%s", c.Kind, c.FromNode, c.FromOutput, c.ToNode, c.ToInput)
}
