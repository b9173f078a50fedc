// Package graph provides the read/write contract over a node graph and its
// reference implementation, Manager.
//
// # Why Graph Package Exists
//
// The Graph interface ties the leaf packages together. Type descriptors
// (internal/datatype), the conversion registry (internal/conversion), the
// node type registry (internal/nodetype) and the connection model
// (internal/connection) are independent; Graph is where a proposed wire is
// checked against all of them and where live connection health is computed.
//
// # Architecture
//
// Manager is a facade over a topologystore.Store:
//
//	┌──────────────────────────────────────┐
//	│              Manager                 │
//	│  type checks, state classification,  │
//	│  handle allocation, dynamic outputs  │
//	└───────┬─────────────┬────────────┬───┘
//	        │             │            │
//	        ▼             ▼            ▼
//	 ┌────────────┐ ┌───────────┐ ┌─────────────┐
//	 │  Topology  │ │ Node type │ │ Conversion  │
//	 │   Store    │ │ registry  │ │  registry   │
//	 └────────────┘ └───────────┘ └─────────────┘
//
// The store only keeps records. Manager owns the rules.
//
// # Connecting
//
// CanConnectTypes checks, in order: exact type equality, the extended
// compatibility of dynamic descriptors (destination side first), and finally
// a registered conversion. A dynamic descriptor without extended info falls
// back to native shape conformance.
//
// TryAddConnection is atomic: when it returns false nothing changed. It
// refuses wires into node-constant inputs, a second data wire into the same
// input, and duplicates. Rejections are reported to the graph's Output as
// warnings.
//
// # Constants
//
// A constant and a data wire never coexist on one input: SetNodeConstantValue
// fails while a data wire drives the input. Evaluators read constants only
// for unconnected inputs.
//
// # Removal
//
// RemoveNode cascades: every connection touching the node is deleted with it,
// so their state becomes StateNotFound. Connections whose pins disappear by
// other means, such as a variable-input node shrinking, stay in the graph and
// classify as missing until removed.
//
// # Thread-Safety
//
// Manager serializes mutations behind one sync.RWMutex. Queries take the
// read lock and may run concurrently with each other.
package graph
