// Package registry provides the central "glue" for the module system.
//
// A Registry bundles the node type registry and the conversion registry that
// one graph session is built against. It is populated in two ways: compiled
// Go modules register node types with native factories and custom
// conversions, and HCL manifests declare further node types, libraries and
// conversions between native types.
//
// During application startup the registry is populated, then validated.
// Validate seals the node type registry, which builds the remap table used to
// resolve historical names, and probes every instantiable type once so that
// broken factories surface before any graph is edited.
package registry
