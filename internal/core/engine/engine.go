// Package engine runs the operations behind the commands. It scaffolds fresh
// plugin trees, adds components and modules to existing ones and checks a
// tree for structural problems.
//
// Operations are synchronous and not transactional. Every mutation is
// idempotent, so re-running a failed operation completes the missing steps.
package engine

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/generator"
	"github.com/nightconcept/bundlewright/internal/core/hasher"
	"github.com/nightconcept/bundlewright/internal/core/ledger"
	"github.com/nightconcept/bundlewright/internal/core/render"
	"github.com/nightconcept/bundlewright/internal/core/report"
)

// Engine runs scaffolding operations.
type Engine struct {
	logger   *log.Logger
	reporter *report.Reporter
	content  generator.ContentSource
	registry *generator.Registry
	renderer *render.Renderer
	ledger   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithReporter sets where user-facing notices go.
func WithReporter(r *report.Reporter) Option { return func(e *Engine) { e.reporter = r } }

// WithContentSource supplies primary class bodies.
func WithContentSource(cs generator.ContentSource) Option {
	return func(e *Engine) { e.content = cs }
}

// WithRegistry replaces the default generator registry.
func WithRegistry(r *generator.Registry) Option { return func(e *Engine) { e.registry = r } }

// WithoutLedger disables bundlewright-lock.toml bookkeeping.
func WithoutLedger() Option { return func(e *Engine) { e.ledger = false } }

// New returns an Engine. Without options it logs nowhere and reports nothing.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   log.New(io.Discard),
		renderer: render.New(),
		ledger:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = generator.NewRegistry(generator.WithRenderer(e.renderer))
	}
	return e
}

// Outcome summarises a successful operation.
type Outcome struct {
	Root       string // project root: aggregator dir or plugin dir
	PluginDir  string
	PluginID   string
	Created    []string // absolute paths
	Registered []string // descriptor entries added, e.g. "pom.xml module org.acme.sales.ui"
	Results    []*generator.Result
}

// session accumulates the effects of one operation.
type session struct {
	e       *Engine
	root    string
	out     *Outcome
	entries map[string]ledger.Entry
}

func (e *Engine) newSession(root string) *session {
	return &session{e: e, root: root, out: &Outcome{Root: root}, entries: make(map[string]ledger.Entry)}
}

func (s *session) rel(path string) string {
	if r, err := filepath.Rel(s.root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}

func (s *session) created(path string, kind, role string) {
	s.out.Created = append(s.out.Created, path)
	s.e.reporter.Created(s.rel(path))
	hash, err := hasher.FingerprintFile(path)
	if err != nil {
		s.e.logger.Warn("cannot fingerprint generated file", "path", path, "err", err)
		return
	}
	s.entries[s.rel(path)] = ledger.Entry{Kind: kind, Role: role, Hash: hash}
}

func (s *session) registered(descriptor, what string) {
	entry := s.rel(descriptor) + " " + what
	s.out.Registered = append(s.out.Registered, entry)
	s.e.reporter.Info("registered %s", entry)
}

// render writes a catalog template unless target exists.
func (s *session) render(template string, data map[string]any, target, kind, role string) error {
	if _, err := os.Stat(target); err == nil {
		s.e.reporter.Skipped("skipping existing " + s.rel(target))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return apperr.IO("check target", target, err)
	}
	if err := s.e.renderer.Render(template, data, target); err != nil {
		return apperr.IO("render "+template, target, err)
	}
	s.created(target, kind, role)
	return nil
}

func (s *session) mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("create directory", dir, err)
	}
	return nil
}

// absorb reports a generator result and queues its files for the ledger.
func (s *session) absorb(res *generator.Result) {
	s.out.Results = append(s.out.Results, res)
	for _, a := range res.Created {
		s.created(a.Path, string(res.Kind), string(a.Role))
	}
	for _, n := range res.Notices {
		switch n.Level {
		case generator.LevelWarn:
			s.e.reporter.Warn("%s", n.Message)
		case generator.LevelReuse:
			s.e.reporter.Reused(n.Message)
		case generator.LevelSkip:
			s.e.reporter.Skipped(n.Message)
		default:
			s.e.reporter.Info("%s", n.Message)
		}
	}
}

// generate runs one generator, filling the body from the content source.
func (s *session) generate(kind component.Kind, fresh bool, sourceDir, pluginDir string, ctx generator.Context) error {
	g, err := s.e.registry.Lookup(kind)
	if err != nil {
		return err
	}
	if s.e.content != nil {
		body, err := s.e.content.Body(kind, ctx)
		if err != nil {
			return apperr.IO("content source", "", err)
		}
		ctx.Body = body
	}

	s.e.logger.Debug("generating", "kind", kind, "fresh", fresh, "plugin", ctx.PluginID, "name", ctx.BaseName)
	var res *generator.Result
	if fresh {
		res, err = g.Generate(sourceDir, pluginDir, ctx)
	} else {
		res, err = g.AddToExisting(sourceDir, pluginDir, ctx)
	}
	if res != nil {
		s.absorb(res)
	}
	return err
}

// finish writes the ledger. Ledger problems are reported, not fatal.
func (s *session) finish() *Outcome {
	if !s.e.ledger || len(s.entries) == 0 {
		return s.out
	}
	l, err := ledger.Load(s.root)
	if err != nil {
		s.e.reporter.Warn("ledger not updated: %v", err)
		return s.out
	}
	l.Catalog = render.CatalogVersion
	for path, entry := range s.entries {
		l.Record(path, entry.Kind, entry.Role, entry.Hash)
	}
	if err := ledger.Save(s.root, l); err != nil {
		s.e.reporter.Warn("ledger not updated: %v", err)
	}
	return s.out
}
