package engine

import (
	"path/filepath"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/structure"
)

// Ledger roles of files the engine writes itself.
const (
	roleSkeleton = "skeleton"
	roleModule   = "module"
)

// parentPom identifies the aggregator a module pom inherits from.
type parentPom struct {
	GroupID    string
	ArtifactID string
	Version    string // Maven form
}

// pluginSkeleton describes a plugin or fragment module.
type pluginSkeleton struct {
	Dir      string
	ID       string
	Name     string
	Version  string
	Vendor   string
	Host     string // Fragment-Host; empty for plugins
	Platform project.PlatformSpec
	Parent   *parentPom
	Kind     string // ledger kind
	Role     string
}

func groupOf(id string) string {
	if i := strings.LastIndex(id, "."); i > 0 {
		return id[:i]
	}
	return id
}

// pomData fills plugin/pom.xml for artifactID.
func pomData(artifactID, packaging, version string, platform project.PlatformSpec, parent *parentPom) map[string]any {
	data := map[string]any{
		"GroupID":          groupOf(artifactID),
		"ParentArtifactID": "",
		"MavenVersion":     project.MavenVersion(version),
		"ArtifactID":       artifactID,
		"Packaging":        packaging,
		"TychoVersion":     platform.TychoVersion,
		"JavaVersion":      platform.JavaVersion,
	}
	if parent != nil {
		data["GroupID"] = parent.GroupID
		data["ParentArtifactID"] = parent.ArtifactID
		data["MavenVersion"] = parent.Version
	}
	return data
}

// writePlugin lays out manifest, build.properties, pom and source folder.
func (s *session) writePlugin(p pluginSkeleton) error {
	err := s.render("plugin/MANIFEST.MF", map[string]any{
		"Name":                 p.Name,
		"PluginID":             p.ID,
		"Version":              p.Version,
		"Vendor":               p.Vendor,
		"FragmentHost":         p.Host,
		"ExecutionEnvironment": p.Platform.ExecutionEnvironment,
	}, filepath.Join(p.Dir, manifest.RelPath), p.Kind, p.Role)
	if err != nil {
		return err
	}
	err = s.render("plugin/build.properties", map[string]any{"WithComponents": true},
		filepath.Join(p.Dir, "build.properties"), p.Kind, p.Role)
	if err != nil {
		return err
	}
	err = s.render("plugin/pom.xml", pomData(p.ID, "eclipse-plugin", p.Version, p.Platform, p.Parent),
		filepath.Join(p.Dir, structure.PomFile), p.Kind, p.Role)
	if err != nil {
		return err
	}
	if err := s.mkdir(filepath.Join(p.Dir, "OSGI-INF")); err != nil {
		return err
	}
	return s.mkdir(project.SourceDir(p.Dir, p.ID))
}

// writeFeature creates a feature module listing plugins.
func (s *session) writeFeature(dir string, spec structure.FeatureSpec, platform project.PlatformSpec, parent *parentPom, kind string) error {
	if err := s.mkdir(dir); err != nil {
		return err
	}
	target := filepath.Join(dir, structure.FeatureFile)
	if exists(target) {
		s.e.reporter.Skipped("skipping existing " + s.rel(target))
	} else {
		if err := structure.NewFeature(dir, spec); err != nil {
			return err
		}
		s.created(target, kind, roleModule)
	}
	err := s.render("feature/build.properties", map[string]any{}, filepath.Join(dir, "build.properties"), kind, roleModule)
	if err != nil {
		return err
	}
	return s.render("plugin/pom.xml", pomData(spec.ID, "eclipse-feature", spec.Version, platform, parent),
		filepath.Join(dir, structure.PomFile), kind, roleModule)
}

// writeSite creates the p2 repository module.
func (s *session) writeSite(dir, id string, spec structure.CategorySpec, version string, platform project.PlatformSpec, parent *parentPom, kind string) error {
	if err := s.mkdir(dir); err != nil {
		return err
	}
	target := filepath.Join(dir, structure.CategoryFile)
	if exists(target) {
		s.e.reporter.Skipped("skipping existing " + s.rel(target))
	} else {
		if err := structure.NewCategory(dir, spec); err != nil {
			return err
		}
		s.created(target, kind, roleModule)
	}
	return s.render("plugin/pom.xml", pomData(id, "eclipse-repository", version, platform, parent),
		filepath.Join(dir, structure.PomFile), kind, roleModule)
}
