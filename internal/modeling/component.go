// Package modeling implements the optimization container: the typed registries
// mapping container keys to value containers, the objective function
// accumulator, and the cross-cutting build state (time horizon, base power,
// resolution, model handle) shared by all formulation code.
package modeling

// ComponentLike is the domain component contract the modeling core consumes.
// Both real domain objects and test doubles implement it; everything else about
// a component (cost data, limits) reaches the core through explicit arguments.
type ComponentLike interface {
	// Name returns the component name, unique within its component type.
	Name() string
	// BasePower returns the component's own power base in MW, positive.
	BasePower() float64
}
