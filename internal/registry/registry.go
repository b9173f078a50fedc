package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/manifest"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that all compiled modules implement to be
// registered.
type Module interface {
	Register(ctx context.Context, r *Registry) error
}

// Registry holds the node types and conversions available to one
// application instance.
type Registry struct {
	Types       *nodetype.Registry
	Conversions *conversion.Registry

	definitions *manifest.Manifest
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		Types:       nodetype.NewRegistry(),
		Conversions: conversion.New(),
		definitions: &manifest.Manifest{},
	}
}

// RegisterModules lets every module register itself. The first failure
// stops registration.
func (r *Registry) RegisterModules(ctx context.Context, mods ...Module) error {
	logger := ctxlog.FromContext(ctx)
	for _, mod := range mods {
		if err := mod.Register(ctx, r); err != nil {
			return fmt.Errorf("registering module %T: %w", mod, err)
		}
		logger.Debug("Registered module.", "module", fmt.Sprintf("%T", mod))
	}
	return nil
}

// RegisterLibrary records library metadata.
func (r *Registry) RegisterLibrary(ctx context.Context, lib nodetype.Library) error {
	return r.Types.RegisterLibrary(ctx, lib)
}

// RegisterNode adds a node type.
func (r *Registry) RegisterNode(ctx context.Context, t *nodetype.NodeType) error {
	return r.Types.Register(ctx, t)
}

// RegisterConversion adds a conversion with custom logic.
func (r *Registry) RegisterConversion(ctx context.Context, from, to datatype.DataType, fn conversion.Func) error {
	return r.Conversions.Register(ctx, from, to, fn)
}

// RegisterCtyConversion adds a native conversion backed by cty/convert.
func (r *Registry) RegisterCtyConversion(ctx context.Context, from, to cty.Type) error {
	return r.Conversions.RegisterCty(ctx, from, to)
}

// Definitions returns every manifest loaded so far, merged.
func (r *Registry) Definitions() *manifest.Manifest {
	return r.definitions
}
