// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// A run registers the compiled modules, loads the HCL manifests found under
// the modules path, validates the resulting registry and prints its catalog.
// With a health check port configured the app keeps serving the catalog over
// HTTP until its context is cancelled.
package app
