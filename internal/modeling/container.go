package modeling

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/copyleftdev/VOLTA/internal/config"
	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/metrics"
	"github.com/copyleftdev/VOLTA/internal/modeling/containers"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

// OptimizationContainer is the aggregate store for one optimization problem
// build: five key-addressed registries of value containers plus the shared
// build state. It is constructed once per problem, mutated by a single logical
// caller during construction, and read-only during solve.
type OptimizationContainer struct {
	model      mp.Model
	buildID    uuid.UUID
	basePower  float64
	resolution time.Duration
	timeSteps  []int

	variables    map[keys.ContainerKey]any
	constraints  map[keys.ContainerKey]any
	parameters   map[keys.ContainerKey]any
	expressions  map[keys.ContainerKey]any
	auxVariables map[keys.ContainerKey]any

	objective *ObjectiveFunction
	settings  *config.Settings
	metrics   *metrics.BuildMetrics
	logger    *zap.Logger
}

// Option configures an OptimizationContainer at construction.
type Option func(*OptimizationContainer)

// WithLogger attaches a logger; the default discards all output.
func WithLogger(logger *zap.Logger) Option {
	return func(oc *OptimizationContainer) {
		oc.logger = logger.Named("optimization_container")
	}
}

// WithMetrics attaches build metrics; the default records nothing.
func WithMetrics(m *metrics.BuildMetrics) Option {
	return func(oc *OptimizationContainer) {
		oc.metrics = m
	}
}

// WithSettings overrides the default build settings.
func WithSettings(cfg *config.Settings) Option {
	return func(oc *OptimizationContainer) {
		oc.settings = cfg
	}
}

// NewOptimizationContainer builds a container around the external model handle.
// basePower is the system MW base and resolution the time-step length; both
// must be positive.
func NewOptimizationContainer(model mp.Model, basePower float64, resolution time.Duration, opts ...Option) (*OptimizationContainer, error) {
	const op = "NewOptimizationContainer"

	if model == nil {
		return nil, errors.New(errors.KindConfig, "model handle must not be nil").WithOperation(op)
	}
	if basePower <= 0 || math.IsInf(basePower, 0) || math.IsNaN(basePower) {
		return nil, errors.Newf(errors.KindConfig, "base power must be a positive finite value, got %v", basePower).WithOperation(op)
	}
	if resolution <= 0 {
		return nil, errors.Newf(errors.KindConfig, "resolution must be positive, got %v", resolution).WithOperation(op)
	}

	oc := &OptimizationContainer{
		model:        model,
		buildID:      uuid.New(),
		basePower:    basePower,
		resolution:   resolution,
		variables:    make(map[keys.ContainerKey]any),
		constraints:  make(map[keys.ContainerKey]any),
		parameters:   make(map[keys.ContainerKey]any),
		expressions:  make(map[keys.ContainerKey]any),
		auxVariables: make(map[keys.ContainerKey]any),
		objective:    NewObjectiveFunction(),
		settings:     config.Default(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(oc)
	}

	oc.logger.Debug("Created optimization container",
		zap.String("build_id", oc.buildID.String()),
		zap.Float64("base_power", basePower),
		zap.Duration("resolution", resolution),
	)
	return oc, nil
}

// SetTimeSteps fixes the time horizon to steps 1..count. It is a one-time
// initialization; a second call fails regardless of the argument.
func (oc *OptimizationContainer) SetTimeSteps(count int) error {
	const op = "OptimizationContainer.SetTimeSteps"

	if oc.timeSteps != nil {
		return errors.New(errors.KindAlreadyInitialized, "time steps were already set").WithOperation(op)
	}
	if count <= 0 {
		return errors.Newf(errors.KindConfig, "time step count must be positive, got %d", count).WithOperation(op)
	}

	oc.timeSteps = make([]int, count)
	for i := range oc.timeSteps {
		oc.timeSteps[i] = i + 1
	}
	oc.logger.Debug("Set time horizon", zap.Int("steps", count))
	return nil
}

// TimeSteps returns the time horizon, nil until SetTimeSteps is called.
func (oc *OptimizationContainer) TimeSteps() []int { return oc.timeSteps }

// BasePower returns the system MW base.
func (oc *OptimizationContainer) BasePower() float64 { return oc.basePower }

// Resolution returns the time-step length.
func (oc *OptimizationContainer) Resolution() time.Duration { return oc.resolution }

// Dt returns the time-step length in hours, the factor converting an hourly
// rate into a per-period quantity.
func (oc *OptimizationContainer) Dt() float64 {
	return oc.resolution.Hours()
}

// Model returns the external model handle.
func (oc *OptimizationContainer) Model() mp.Model { return oc.model }

// Objective returns the objective function accumulator.
func (oc *OptimizationContainer) Objective() *ObjectiveFunction { return oc.objective }

// Settings returns the build settings.
func (oc *OptimizationContainer) Settings() *config.Settings { return oc.settings }

// Metrics returns the build metrics handle, possibly nil.
func (oc *OptimizationContainer) Metrics() *metrics.BuildMetrics { return oc.metrics }

// Logger returns the container's logger.
func (oc *OptimizationContainer) Logger() *zap.Logger { return oc.logger }

// BuildID returns the unique identifier of this problem build.
func (oc *OptimizationContainer) BuildID() uuid.UUID { return oc.buildID }

// registryFor maps a key kind to its registry.
func (oc *OptimizationContainer) registryFor(kind keys.Kind) map[keys.ContainerKey]any {
	switch kind {
	case keys.VariableKind:
		return oc.variables
	case keys.ConstraintKind:
		return oc.constraints
	case keys.ParameterKind:
		return oc.parameters
	case keys.ExpressionKind:
		return oc.expressions
	case keys.AuxVariableKind:
		return oc.auxVariables
	default:
		return nil
	}
}

// register inserts a container under key, enforcing insert-once semantics
// unless the rebuild setting allows replacement.
func (oc *OptimizationContainer) register(key keys.ContainerKey, container any) error {
	const op = "OptimizationContainer.register"

	reg := oc.registryFor(key.Kind())
	if reg == nil {
		return errors.Newf(errors.KindConfig, "key %s has no registry", key).WithOperation(op)
	}
	if _, exists := reg[key]; exists {
		if !oc.settings.Build.AllowRebuild {
			return errors.Newf(errors.KindDuplicateKey, "container %s already registered", key).WithOperation(op)
		}
		oc.logger.Debug("Replacing container under rebuild mode", zap.Stringer("key", key))
		reg[key] = container
		return nil
	}
	reg[key] = container
	oc.metrics.ContainerRegistered(1)
	return nil
}

// HasContainerKey reports whether a container exists for (element, component).
// It never fails; this probe is the sanctioned way to make a lookup optional.
func (oc *OptimizationContainer) HasContainerKey(element *keys.ElementType, component keys.ComponentType) bool {
	return oc.HasContainerKeyWithMeta(element, component, "")
}

// HasContainerKeyWithMeta is HasContainerKey for qualified keys.
func (oc *OptimizationContainer) HasContainerKeyWithMeta(element *keys.ElementType, component keys.ComponentType, meta string) bool {
	reg := oc.registryFor(element.Kind())
	if reg == nil {
		return false
	}
	_, ok := reg[keys.NewKeyWithMeta(element, component, meta)]
	return ok
}

// lookup fetches the raw container under key.
func (oc *OptimizationContainer) lookup(key keys.ContainerKey) (any, error) {
	const op = "OptimizationContainer.lookup"

	reg := oc.registryFor(key.Kind())
	if reg == nil {
		return nil, errors.Newf(errors.KindConfig, "key %s has no registry", key).WithOperation(op)
	}
	c, ok := reg[key]
	if !ok {
		return nil, errors.Newf(errors.KindKeyNotFound, "container %s was never added", key).WithOperation(op)
	}
	return c, nil
}

// typedContainer resolves key and asserts the container's concrete type.
func typedContainer[T any](oc *OptimizationContainer, key keys.ContainerKey) (T, error) {
	var zero T
	raw, err := oc.lookup(key)
	if err != nil {
		return zero, err
	}
	c, ok := raw.(T)
	if !ok {
		return zero, errors.Newf(errors.KindConfig, "container %s holds %T, not %T", key, raw, zero)
	}
	return c, nil
}

// requireKind guards the element tag passed to an Add*Container call.
func requireKind(element *keys.ElementType, kind keys.Kind, op string) error {
	if element == nil {
		return errors.New(errors.KindConfig, "element type must not be nil").WithOperation(op)
	}
	if element.Kind() != kind {
		return errors.Newf(errors.KindConfig, "element type %s is a %s tag, expected %s", element.Name(), element.Kind(), kind).WithOperation(op)
	}
	return nil
}

// requireHorizon guards container creation against a missing time axis.
func (oc *OptimizationContainer) requireHorizon(op string) error {
	if oc.timeSteps == nil {
		return errors.New(errors.KindConfig, "time steps must be set before adding containers").WithOperation(op)
	}
	return nil
}

// VariableDef is the extension point supplying per-cell creation settings for
// a variable container. Nil bound callbacks mean unbounded on that side.
type VariableDef struct {
	// Lower returns the lower bound for a component's variables.
	Lower func(name string) float64
	// Upper returns the upper bound for a component's variables.
	Upper func(name string) float64
	// Binary restricts every cell to {0, 1}.
	Binary bool
	// Start, when non-nil, supplies per-cell warm-start values.
	Start func(name string, t int) *float64
}

func (d VariableDef) options(name string, t int) mp.VarOptions {
	opts := mp.Unbounded()
	if d.Lower != nil {
		opts.Lower = d.Lower(name)
	}
	if d.Upper != nil {
		opts.Upper = d.Upper(name)
	}
	opts.Binary = d.Binary
	if d.Start != nil {
		opts.Start = d.Start(name, t)
	}
	return opts
}

// AddVariableContainer allocates a dense variable container over
// (names x time steps) and immediately populates every cell with a model
// decision variable created per the definition's callbacks.
func (oc *OptimizationContainer) AddVariableContainer(element *keys.ElementType, component keys.ComponentType, names []string, def VariableDef) (*containers.Dense[mp.Variable], error) {
	const op = "OptimizationContainer.AddVariableContainer"

	if err := requireKind(element, keys.VariableKind, op); err != nil {
		return nil, err
	}
	if err := oc.requireHorizon(op); err != nil {
		return nil, err
	}

	d, err := containers.NewDense[mp.Variable](names, oc.timeSteps)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	err = d.Fill(func(name string, t int) (mp.Variable, error) {
		hint := fmt.Sprintf("%s_%s_{%s, %d}", element.Name(), component, name, t)
		v, err := oc.model.AddVariable(hint, def.options(name, t))
		if err != nil {
			return mp.Variable{}, err
		}
		oc.metrics.VariableCreated()
		return v, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	if err := oc.register(keys.NewKey(element, component), d); err != nil {
		return nil, err
	}
	oc.logger.Debug("Added variable container",
		zap.String("element", element.Name()),
		zap.String("component", string(component)),
		zap.Int("cells", d.Len()),
	)
	return d, nil
}

// AddConstraintContainer allocates a dense constraint container over
// (names x time steps). Cells are filled later, as the constraints are built.
func (oc *OptimizationContainer) AddConstraintContainer(element *keys.ElementType, component keys.ComponentType, names []string) (*containers.Dense[mp.Constraint], error) {
	return oc.AddConstraintContainerWithMeta(element, component, "", names)
}

// AddConstraintContainerWithMeta is AddConstraintContainer under a qualified
// key, for element/component pairs needing several containers (upper vs lower
// bounds and the like).
func (oc *OptimizationContainer) AddConstraintContainerWithMeta(element *keys.ElementType, component keys.ComponentType, meta string, names []string) (*containers.Dense[mp.Constraint], error) {
	const op = "OptimizationContainer.AddConstraintContainer"

	if err := requireKind(element, keys.ConstraintKind, op); err != nil {
		return nil, err
	}
	if err := oc.requireHorizon(op); err != nil {
		return nil, err
	}

	d, err := containers.NewDense[mp.Constraint](names, oc.timeSteps)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	if err := oc.register(keys.NewKeyWithMeta(element, component, meta), d); err != nil {
		return nil, err
	}
	return d, nil
}

// AddExpressionContainer allocates a dense expression container with every
// cell holding an empty expression. Element tags marked quadratic get
// quadratic-capable cells; all others get affine cells.
func (oc *OptimizationContainer) AddExpressionContainer(element *keys.ElementType, component keys.ComponentType, names []string) error {
	const op = "OptimizationContainer.AddExpressionContainer"

	if err := requireKind(element, keys.ExpressionKind, op); err != nil {
		return err
	}
	if err := oc.requireHorizon(op); err != nil {
		return err
	}

	key := keys.NewKey(element, component)
	if element.Quadratic() {
		d, err := containers.NewDense[*mp.QuadExpr](names, oc.timeSteps)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		if err := d.Fill(func(string, int) (*mp.QuadExpr, error) { return mp.NewQuadExpr(), nil }); err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		return oc.register(key, d)
	}

	d, err := containers.NewDense[*mp.LinearExpr](names, oc.timeSteps)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	if err := d.Fill(func(string, int) (*mp.LinearExpr, error) { return mp.NewLinearExpr(), nil }); err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	return oc.register(key, d)
}

// ParameterStore backs one parameter container: externally updated values and
// their multipliers, resolved cell-wise as value*multiplier at assembly time.
type ParameterStore struct {
	values      *containers.Dense[float64]
	multipliers *containers.Dense[float64]
}

// Values returns the dense value grid.
func (p *ParameterStore) Values() *containers.Dense[float64] { return p.values }

// Multipliers returns the dense multiplier grid.
func (p *ParameterStore) Multipliers() *containers.Dense[float64] { return p.multipliers }

// Resolve returns value*multiplier at (name, t).
func (p *ParameterStore) Resolve(name string, t int) (float64, error) {
	v, err := p.values.Get(name, t)
	if err != nil {
		return 0, err
	}
	m, err := p.multipliers.Get(name, t)
	if err != nil {
		return 0, err
	}
	return v * m, nil
}

// AddParameterContainer allocates a parameter container with all values zero
// and all multipliers one.
func (oc *OptimizationContainer) AddParameterContainer(element *keys.ElementType, component keys.ComponentType, names []string) (*ParameterStore, error) {
	const op = "OptimizationContainer.AddParameterContainer"

	if err := requireKind(element, keys.ParameterKind, op); err != nil {
		return nil, err
	}
	if err := oc.requireHorizon(op); err != nil {
		return nil, err
	}

	values, err := containers.NewDense[float64](names, oc.timeSteps)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	multipliers, err := containers.NewDense[float64](names, oc.timeSteps)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	if err := multipliers.Fill(func(string, int) (float64, error) { return 1.0, nil }); err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	store := &ParameterStore{values: values, multipliers: multipliers}
	if err := oc.register(keys.NewKey(element, component), store); err != nil {
		return nil, err
	}
	return store, nil
}

// AddAuxVariableContainer allocates a dense auxiliary value container, filled
// after solve for reporting.
func (oc *OptimizationContainer) AddAuxVariableContainer(element *keys.ElementType, component keys.ComponentType, names []string) (*containers.Dense[float64], error) {
	const op = "OptimizationContainer.AddAuxVariableContainer"

	if err := requireKind(element, keys.AuxVariableKind, op); err != nil {
		return nil, err
	}
	if err := oc.requireHorizon(op); err != nil {
		return nil, err
	}

	d, err := containers.NewDense[float64](names, oc.timeSteps)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	if err := oc.register(keys.NewKey(element, component), d); err != nil {
		return nil, err
	}
	return d, nil
}

// DenseVariables looks up a dense variable container.
func DenseVariables(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Dense[mp.Variable], error) {
	return typedContainer[*containers.Dense[mp.Variable]](oc, keys.NewKey(element, component))
}

// SparseVariables looks up a sparse variable container.
func SparseVariables(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Sparse[mp.Variable], error) {
	return typedContainer[*containers.Sparse[mp.Variable]](oc, keys.NewKey(element, component))
}

// DenseConstraints looks up a dense constraint container.
func DenseConstraints(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Dense[mp.Constraint], error) {
	return typedContainer[*containers.Dense[mp.Constraint]](oc, keys.NewKey(element, component))
}

// DenseConstraintsWithMeta looks up a dense constraint container under a
// qualified key.
func DenseConstraintsWithMeta(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType, meta string) (*containers.Dense[mp.Constraint], error) {
	return typedContainer[*containers.Dense[mp.Constraint]](oc, keys.NewKeyWithMeta(element, component, meta))
}

// SparseConstraints looks up a sparse constraint container.
func SparseConstraints(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Sparse[mp.Constraint], error) {
	return typedContainer[*containers.Sparse[mp.Constraint]](oc, keys.NewKey(element, component))
}

// LinearExpressions looks up an affine expression container.
func LinearExpressions(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Dense[*mp.LinearExpr], error) {
	return typedContainer[*containers.Dense[*mp.LinearExpr]](oc, keys.NewKey(element, component))
}

// QuadExpressions looks up a quadratic expression container.
func QuadExpressions(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Dense[*mp.QuadExpr], error) {
	return typedContainer[*containers.Dense[*mp.QuadExpr]](oc, keys.NewKey(element, component))
}

// Parameters looks up a parameter container.
func Parameters(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*ParameterStore, error) {
	return typedContainer[*ParameterStore](oc, keys.NewKey(element, component))
}

// AuxVariables looks up an auxiliary value container.
func AuxVariables(oc *OptimizationContainer, element *keys.ElementType, component keys.ComponentType) (*containers.Dense[float64], error) {
	return typedContainer[*containers.Dense[float64]](oc, keys.NewKey(element, component))
}

// EnsureSparseVariableContainer returns the sparse variable container under
// (element, component), creating and registering an empty one on first use.
// This is the two-phase get-or-create idiom for containers whose cell set is
// only known incrementally, e.g. piecewise-linear segment variables.
func (oc *OptimizationContainer) EnsureSparseVariableContainer(element *keys.ElementType, component keys.ComponentType) (*containers.Sparse[mp.Variable], error) {
	const op = "OptimizationContainer.EnsureSparseVariableContainer"

	if err := requireKind(element, keys.VariableKind, op); err != nil {
		return nil, err
	}
	key := keys.NewKey(element, component)
	if _, exists := oc.variables[key]; !exists {
		s := containers.NewSparse[mp.Variable]()
		if err := oc.register(key, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return typedContainer[*containers.Sparse[mp.Variable]](oc, key)
}

// EnsureSparseConstraintContainer is EnsureSparseVariableContainer for
// constraint containers.
func (oc *OptimizationContainer) EnsureSparseConstraintContainer(element *keys.ElementType, component keys.ComponentType) (*containers.Sparse[mp.Constraint], error) {
	const op = "OptimizationContainer.EnsureSparseConstraintContainer"

	if err := requireKind(element, keys.ConstraintKind, op); err != nil {
		return nil, err
	}
	key := keys.NewKey(element, component)
	if _, exists := oc.constraints[key]; !exists {
		s := containers.NewSparse[mp.Constraint]()
		if err := oc.register(key, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return typedContainer[*containers.Sparse[mp.Constraint]](oc, key)
}

// AddToExpression accumulates an affine addend into the (name, t) cell of the
// expression container under (element, component), regardless of whether the
// container carries affine or quadratic cells.
func (oc *OptimizationContainer) AddToExpression(element *keys.ElementType, component keys.ComponentType, name string, t int, addend *mp.LinearExpr) error {
	const op = "OptimizationContainer.AddToExpression"

	raw, err := oc.lookup(keys.NewKey(element, component))
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	switch d := raw.(type) {
	case *containers.Dense[*mp.LinearExpr]:
		cell, err := d.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		cell.Accumulate(addend)
	case *containers.Dense[*mp.QuadExpr]:
		cell, err := d.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		cell.Accumulate(addend)
	default:
		return errors.Newf(errors.KindConfig, "container %s_%s is not an expression container", element.Name(), component).WithOperation(op)
	}
	return nil
}

// AddQuadTermToExpression accumulates coeff*a*b into the (name, t) cell of a
// quadratic expression container. Affine-tagged containers reject the call.
func (oc *OptimizationContainer) AddQuadTermToExpression(element *keys.ElementType, component keys.ComponentType, name string, t int, a, b mp.Variable, coeff float64) error {
	const op = "OptimizationContainer.AddQuadTermToExpression"

	d, err := QuadExpressions(oc, element, component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	cell, err := d.Get(name, t)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	cell.AddQuadTerm(a, b, coeff)
	return nil
}
