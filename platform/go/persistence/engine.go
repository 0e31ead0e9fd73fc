package persistence

import (
	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Engine bundles the identity-resolution and hydration components over one
// store and one collection registry. It is built once at startup and shared by
// every domain repository.
type Engine struct {
	store     Store
	registry  *registry.Registry
	sequences *SequenceGenerator
	resolver  *Resolver
	guard     *Guard
	hydrator  *Hydrator
}

// NewEngine wires the engine components over the store and registry.
func NewEngine(store Store, reg *registry.Registry) *Engine {
	if store == nil {
		panic("store is required")
	}
	if reg == nil {
		panic("registry is required")
	}
	return &Engine{
		store:     store,
		registry:  reg,
		sequences: NewSequenceGenerator(store),
		resolver:  NewResolver(store, reg),
		guard:     NewGuard(store, reg),
		hydrator:  NewHydrator(store, reg),
	}
}

// Store exposes the underlying document store.
func (e *Engine) Store() Store { return e.store }

// Registry exposes the collection registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Sequences exposes the sequence generator.
func (e *Engine) Sequences() *SequenceGenerator { return e.sequences }

// Resolver exposes the identifier resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Guard exposes the existence guard.
func (e *Engine) Guard() *Guard { return e.guard }

// Hydrator exposes the reference hydrator.
func (e *Engine) Hydrator() *Hydrator { return e.hydrator }
