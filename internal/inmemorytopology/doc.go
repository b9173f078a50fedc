// Package inmemorytopology provides a thread-safe, in-memory implementation
// of topologystore.Store. Graphs edited interactively fit comfortably in
// memory and need no persistent storage of their own.
package inmemorytopology
