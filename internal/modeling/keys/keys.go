// Package keys implements the typed identity tuples used to address the
// registries of an optimization container.
package keys

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

// Kind identifies which registry a container key addresses.
type Kind int

const (
	// VariableKind addresses decision variable containers.
	VariableKind Kind = iota
	// ConstraintKind addresses constraint containers.
	ConstraintKind
	// ParameterKind addresses parameter containers.
	ParameterKind
	// ExpressionKind addresses expression containers.
	ExpressionKind
	// AuxVariableKind addresses auxiliary variable containers.
	AuxVariableKind
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case VariableKind:
		return "variable"
	case ConstraintKind:
		return "constraint"
	case ParameterKind:
		return "parameter"
	case ExpressionKind:
		return "expression"
	case AuxVariableKind:
		return "aux_variable"
	default:
		return "unknown"
	}
}

// ElementType is a registered nominal tag naming what a container's cells hold.
// The standard tags are registered by this package; host applications may add
// their own through Register.
type ElementType struct {
	name      string
	kind      Kind
	quadratic bool
}

// Name returns the canonical name of the element type.
func (e *ElementType) Name() string { return e.name }

// Kind returns the registry kind the element type belongs to.
func (e *ElementType) Kind() Kind { return e.kind }

// Quadratic reports whether expression containers of this element type must
// back their cells with quadratic expressions.
func (e *ElementType) Quadratic() bool { return e.quadratic }

// ComponentType is a nominal tag for the domain component class a container
// covers (e.g. "ThermalGenerator").
type ComponentType string

var (
	registryMu sync.RWMutex
	registry   = map[string]*ElementType{}
)

// Register adds a new element type under the given unique name. It fails with
// a config error if the name is already taken.
func Register(name string, kind Kind) (*ElementType, error) {
	return register(name, kind, false)
}

// RegisterQuadratic adds a new expression element type whose containers carry
// quadratic expressions.
func RegisterQuadratic(name string) (*ElementType, error) {
	return register(name, ExpressionKind, true)
}

func register(name string, kind Kind, quadratic bool) (*ElementType, error) {
	const op = "keys.Register"

	if name == "" {
		return nil, errors.New(errors.KindConfig, "element type name must not be empty").WithOperation(op)
	}
	if strings.Contains(name, Separator) {
		return nil, errors.Newf(errors.KindConfig, "element type name %q must not contain %q", name, Separator).WithOperation(op)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return nil, errors.Newf(errors.KindDuplicateKey, "element type %q already registered", name).WithOperation(op)
	}
	e := &ElementType{name: name, kind: kind, quadratic: quadratic}
	registry[name] = e
	return e, nil
}

// mustRegister registers the standard tags at package init.
func mustRegister(name string, kind Kind, quadratic bool) *ElementType {
	e, err := register(name, kind, quadratic)
	if err != nil {
		panic(err)
	}
	return e
}

// Lookup resolves a registered element type by name.
func Lookup(name string) (*ElementType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// RegisteredNames returns the sorted names of all registered element types.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Separator joins the fields of the canonical key string encoding. It is a
// stable on-disk contract.
const Separator = "__"

// ContainerKey is the immutable identity tuple addressing one value container:
// registry kind, element type, component type and an optional qualifier used to
// disambiguate multiple containers of the same pair. Keys compare and hash
// structurally.
type ContainerKey struct {
	kind      Kind
	element   string
	component ComponentType
	meta      string
}

// NewKey builds a key for the (element, component) pair.
func NewKey(element *ElementType, component ComponentType) ContainerKey {
	return ContainerKey{kind: element.kind, element: element.name, component: component}
}

// NewKeyWithMeta builds a key carrying a qualifier.
func NewKeyWithMeta(element *ElementType, component ComponentType, meta string) ContainerKey {
	return ContainerKey{kind: element.kind, element: element.name, component: component, meta: meta}
}

// Kind returns the registry kind the key addresses.
func (k ContainerKey) Kind() Kind { return k.kind }

// ElementName returns the element type name of the key.
func (k ContainerKey) ElementName() string { return k.element }

// Element resolves the key's element type against the registry.
func (k ContainerKey) Element() (*ElementType, bool) {
	return Lookup(k.element)
}

// Component returns the component type of the key.
func (k ContainerKey) Component() ComponentType { return k.component }

// Meta returns the key qualifier, empty for unqualified keys.
func (k ContainerKey) Meta() string { return k.meta }

// String implements fmt.Stringer using the canonical encoding.
func (k ContainerKey) String() string { return k.Encode() }

// Encode renders the canonical string form
// "ElementType__ComponentType" or "ElementType__ComponentType__meta".
func (k ContainerKey) Encode() string {
	if k.meta == "" {
		return fmt.Sprintf("%s%s%s", k.element, Separator, k.component)
	}
	return fmt.Sprintf("%s%s%s%s%s", k.element, Separator, k.component, Separator, k.meta)
}

// Decode parses a canonical key string back into a ContainerKey. The element
// type name must be registered; decoding an unregistered name fails with an
// unknown-key-type error so that metadata written by a newer host with extra
// registered types surfaces loudly rather than silently.
func Decode(encoded string) (ContainerKey, error) {
	const op = "keys.Decode"

	parts := strings.Split(encoded, Separator)
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return ContainerKey{}, errors.Newf(errors.KindConfig, "malformed key encoding %q", encoded).WithOperation(op)
	}

	element, ok := Lookup(parts[0])
	if !ok {
		return ContainerKey{}, errors.Newf(errors.KindUnknownKeyType, "element type %q is not registered", parts[0]).WithOperation(op)
	}

	key := NewKey(element, ComponentType(parts[1]))
	if len(parts) == 3 {
		key.meta = parts[2]
	}
	return key, nil
}
