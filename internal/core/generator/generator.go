// Package generator turns a component kind into source files, service
// descriptors and resources inside a plugin, and merges the manifest headers
// those files need.
//
// Every kind runs in one of two modes. Generate is the fresh-scaffold path:
// names derive from the plugin id, and shared infrastructure is created by
// the earliest enabled sibling kind needing it. AddToExisting is the
// incremental path: names come from the caller, and shared infrastructure is
// looked up through a detector.InfrastructureIndex and reused when present.
// Neither mode overwrites an existing file.
package generator

import (
	"fmt"
	"path/filepath"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/detector"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/render"
)

// Generator produces the artifacts of one component kind.
type Generator interface {
	Kind() component.Kind
	// Generate is the fresh-scaffold path.
	Generate(sourceDir, projectRoot string, ctx Context) (*Result, error)
	// AddToExisting is the incremental path.
	AddToExisting(sourceDir, projectRoot string, ctx Context) (*Result, error)
}

// ContentSource can supply the body of a component's primary class, for
// example from a code assistant. Returning "" keeps the catalog default.
type ContentSource interface {
	Body(kind component.Kind, ctx Context) (string, error)
}

// Role classifies an emitted artifact.
type Role string

const (
	RoleClass          Role = "class"
	RoleInfrastructure Role = "infrastructure"
	RoleDescriptor     Role = "descriptor"
	RoleResource       Role = "resource"
)

// Artifact is a file a generator created.
type Artifact struct {
	Path  string
	Role  Role
	Infra component.Infra // set for RoleInfrastructure
}

// Reuse records existing infrastructure a generator relied on instead of
// creating its own.
type Reuse struct {
	Infra component.Infra
	Path  string
}

// Level classifies a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelReuse // existing infrastructure was reused
	LevelSkip  // an existing file was left untouched
)

// Notice is a user-facing message produced during generation.
type Notice struct {
	Level   Level
	Message string
}

// Result describes one generator run.
type Result struct {
	Kind       component.Kind
	Created    []Artifact
	Skipped    []string // existing files left untouched
	Reused     []Reuse
	Components []string // service-component paths registered in the manifest
	Manifest   []*manifest.MergeResult
	Notices    []Notice
}

// InfrastructureCreated lists the created artifacts classified as shared
// infrastructure.
func (r *Result) InfrastructureCreated() []Artifact {
	var out []Artifact
	for _, a := range r.Created {
		if a.Role == RoleInfrastructure {
			out = append(out, a)
		}
	}
	return out
}

func (r *Result) notice(level Level, format string, args ...any) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

// IndexFunc builds the infrastructure index for a source directory.
type IndexFunc func(sourceDir string) detector.InfrastructureIndex

func sourceIndex(sourceDir string) detector.InfrastructureIndex {
	return detector.NewSourceIndex(sourceDir)
}

// Registry is the closed set of generators, one per kind, in canonical order.
type Registry struct {
	generators []*generator
}

// Option configures a Registry.
type Option func(*Registry)

// WithIndex replaces content-signature detection in incremental mode.
func WithIndex(fn IndexFunc) Option {
	return func(r *Registry) {
		for _, g := range r.generators {
			g.index = fn
		}
	}
}

// WithRenderer replaces the embedded catalog renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(r *Registry) {
		for _, g := range r.generators {
			g.renderer = renderer
		}
	}
}

// NewRegistry returns the registry of every kind.
func NewRegistry(opts ...Option) *Registry {
	renderer := render.New()
	emitters := []kindEmitter{
		calloutKind{},
		processKind{},
		reportKind{},
		eventKind{},
		validatorKind{},
		formKind{},
		restKind{},
		testKind{},
	}
	r := &Registry{}
	for _, e := range emitters {
		r.generators = append(r.generators, &generator{emitter: e, renderer: renderer, index: sourceIndex})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the generator of kind.
func (r *Registry) Lookup(kind component.Kind) (Generator, error) {
	for _, g := range r.generators {
		if g.Kind() == kind {
			return g, nil
		}
	}
	return nil, apperr.Input("lookup generator", fmt.Errorf("%w: %q", apperr.ErrUnknownKind, kind))
}

// Kinds lists the registered kinds in canonical order.
func (r *Registry) Kinds() []component.Kind {
	kinds := make([]component.Kind, 0, len(r.generators))
	for _, g := range r.generators {
		kinds = append(kinds, g.Kind())
	}
	return kinds
}

var defaultRegistry = NewRegistry()

// Lookup returns the generator of kind from the default registry.
func Lookup(kind component.Kind) (Generator, error) { return defaultRegistry.Lookup(kind) }

// Kinds lists the kinds of the default registry.
func Kinds() []component.Kind { return defaultRegistry.Kinds() }

type mode int

const (
	modeFresh mode = iota
	modeIncremental
)

// names are the base names one emission works with. Fresh: Base is the
// plugin base (Sales) and Class adds the kind suffix (SalesProcess).
// Incremental: both are the caller's name.
type names struct {
	Base  string
	Class string
}

// kindEmitter writes the kind-specific artifacts of one emission.
type kindEmitter interface {
	kind() component.Kind
	suffix() string
	emit(e *emission, n names) error
}

type generator struct {
	emitter  kindEmitter
	renderer *render.Renderer
	index    IndexFunc
}

func (g *generator) Kind() component.Kind { return g.emitter.kind() }

func (g *generator) Generate(sourceDir, projectRoot string, ctx Context) (*Result, error) {
	base := ctx.PluginBase()
	return g.run(modeFresh, sourceDir, projectRoot, ctx, names{Base: base, Class: base + g.emitter.suffix()})
}

func (g *generator) AddToExisting(sourceDir, projectRoot string, ctx Context) (*Result, error) {
	return g.run(modeIncremental, sourceDir, projectRoot, ctx, names{Base: ctx.BaseName, Class: ctx.BaseName})
}

func (g *generator) run(m mode, sourceDir, projectRoot string, ctx Context, n names) (*Result, error) {
	if err := project.ValidatePluginID(ctx.PluginID); err != nil {
		return nil, err
	}
	if err := project.ValidateClassName(n.Class); err != nil {
		return nil, err
	}
	e := &emission{
		mode:        m,
		kind:        g.Kind(),
		renderer:    g.renderer,
		sourceDir:   filepath.Clean(sourceDir),
		projectRoot: filepath.Clean(projectRoot),
		ctx:         ctx,
		platform:    ctx.Platform.Spec(),
		result:      &Result{Kind: g.Kind()},
	}
	if m == modeIncremental {
		e.index = g.index(e.sourceDir)
	}
	if err := g.emitter.emit(e, n); err != nil {
		return e.result, err
	}
	if err := e.mergeManifest(); err != nil {
		return e.result, err
	}
	return e.result, nil
}
