package engine

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/detector"
	"github.com/nightconcept/bundlewright/internal/core/generator"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/structure"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one structural problem.
type Finding struct {
	Severity Severity
	Path     string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Path, f.Message)
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

type checker struct {
	d        *project.Descriptor
	findings []Finding
}

func (c *checker) add(sev Severity, p, format string, args ...any) {
	c.findings = append(c.findings, Finding{Severity: sev, Path: p, Message: fmt.Sprintf(format, args...)})
}

// Check inspects the project containing dir: the manifest, its service
// components, the bundle activator, duplicated shared infrastructure and
// the aggregator's modules.
func (e *Engine) Check(dir string) ([]Finding, error) {
	d, err := project.Derive(dir)
	if err != nil {
		return nil, err
	}
	c := &checker{d: d}
	if d.MultiModule {
		if err := c.modules(); err != nil {
			return nil, err
		}
	}
	if !d.ManifestFound {
		c.add(SeverityError, filepath.Join(d.PluginDir, manifest.RelPath), "%v", apperr.ErrNoManifest)
		return c.findings, nil
	}

	headers, _, err := manifest.Load(d.PluginDir)
	if err != nil {
		return nil, apperr.IO("check manifest", filepath.Join(d.PluginDir, manifest.RelPath), err)
	}
	if err := c.components(headers); err != nil {
		return nil, err
	}
	c.activator(headers)
	if err := c.infrastructure(); err != nil {
		return nil, err
	}
	e.logger.Debug("checked project", "id", d.ID, "findings", len(c.findings))
	return c.findings, nil
}

func (c *checker) modules() error {
	agg, ok, err := structure.LoadAggregator(c.d.Root)
	if err != nil || !ok {
		return err
	}
	for _, m := range agg.Modules() {
		if info, err := os.Stat(filepath.Join(c.d.Root, m)); err != nil || !info.IsDir() {
			c.add(SeverityError, agg.Path(), "module %s is listed but its directory is missing", m)
		}
	}
	return nil
}

// components cross-checks Service-Component against OSGI-INF.
func (c *checker) components(headers manifest.Headers) error {
	mf := filepath.Join(c.d.PluginDir, manifest.RelPath)
	entries := manifest.EntryNames(headers.Get(manifest.ServiceComponent))
	for _, entry := range entries {
		abs := filepath.Join(c.d.PluginDir, filepath.FromSlash(entry))
		if strings.ContainsAny(entry, "*?[") {
			matches, err := filepath.Glob(abs)
			if err != nil {
				c.add(SeverityError, mf, "Service-Component entry %s is not a valid pattern", entry)
			} else if len(matches) == 0 {
				c.add(SeverityWarning, mf, "Service-Component entry %s matches no descriptor", entry)
			}
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			c.add(SeverityError, mf, "Service-Component entry %s points at a missing file", entry)
		}
	}

	descriptors, err := filepath.Glob(filepath.Join(c.d.PluginDir, generator.ComponentDir, "*.xml"))
	if err != nil {
		return apperr.IO("check service components", c.d.PluginDir, err)
	}
	sort.Strings(descriptors)
	for _, abs := range descriptors {
		rel := path.Join(generator.ComponentDir, filepath.Base(abs))
		if !registered(entries, rel) {
			c.add(SeverityWarning, abs, "service component is not listed in Service-Component")
		}
	}

	if len(descriptors) > 0 {
		build := filepath.Join(c.d.PluginDir, "build.properties")
		data, err := os.ReadFile(build)
		if err == nil && !strings.Contains(string(data), generator.ComponentDir) {
			c.add(SeverityWarning, build, "bin.includes does not ship %s/", generator.ComponentDir)
		}
	}
	return nil
}

func registered(entries []string, rel string) bool {
	for _, entry := range entries {
		if entry == rel {
			return true
		}
		if ok, err := path.Match(entry, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// activator verifies Bundle-Activator names a class in the plugin.
func (c *checker) activator(headers manifest.Headers) {
	fqcn := strings.TrimSpace(headers.Get(manifest.BundleActivator))
	if fqcn == "" {
		return
	}
	i := strings.LastIndex(fqcn, ".")
	if i < 0 {
		c.add(SeverityWarning, filepath.Join(c.d.PluginDir, manifest.RelPath), "Bundle-Activator %s has no package", fqcn)
		return
	}
	src := filepath.Join(project.SourceDir(c.d.PluginDir, fqcn[:i]), fqcn[i+1:]+detector.SourceExt)
	if _, err := os.Stat(src); err != nil {
		c.add(SeverityWarning, filepath.Join(c.d.PluginDir, manifest.RelPath), "Bundle-Activator %s has no source at %s", fqcn, src)
	}
}

// infrastructure reports shared infrastructure present more than once.
func (c *checker) infrastructure() error {
	infras := make([]component.Infra, 0, len(detector.Signatures))
	for in := range detector.Signatures {
		infras = append(infras, in)
	}
	sort.Slice(infras, func(i, j int) bool { return infras[i] < infras[j] })

	for _, in := range infras {
		matches, err := detector.FindAll(c.d.SourceDir(), detector.Signatures[in])
		if err != nil {
			return apperr.IO("check infrastructure", c.d.SourceDir(), err)
		}
		if len(matches) > 1 {
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = filepath.Base(m)
			}
			c.add(SeverityWarning, c.d.SourceDir(), "duplicate %s: %s", in, strings.Join(names, ", "))
		}
	}
	return nil
}
