package project

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
)

var (
	pluginIDPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)+$`)
	classNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	qualifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidatePluginID checks a dotted bundle symbolic name such as org.acme.sales.
func ValidatePluginID(id string) error {
	if !pluginIDPattern.MatchString(id) {
		return apperr.Inputf("validate plugin id", "%q is not a dotted plugin id such as org.acme.sales", id)
	}
	return nil
}

// ValidateClassName checks a Java type name used as a component base name.
func ValidateClassName(name string) error {
	if !classNamePattern.MatchString(name) {
		return apperr.Inputf("validate name", "%q must start with an upper-case letter and contain only letters, digits or _", name)
	}
	return nil
}

// ValidateVersion checks an OSGi bundle version: a strict major.minor.patch
// optionally followed by a .qualifier segment.
func ValidateVersion(version string) error {
	numeric, qualifier := splitQualifier(version)
	if _, err := semver.StrictNewVersion(numeric); err != nil {
		return apperr.Inputf("validate version", "%q is not a bundle version such as 1.0.0.qualifier", version)
	}
	if qualifier != "" && !qualifierPattern.MatchString(qualifier) {
		return apperr.Inputf("validate version", "%q has an invalid qualifier", version)
	}
	return nil
}

func splitQualifier(version string) (string, string) {
	parts := strings.SplitN(version, ".", 4)
	if len(parts) < 4 {
		return version, ""
	}
	return strings.Join(parts[:3], "."), parts[3]
}

// MavenVersion converts a bundle version to the matching Maven version:
// 1.0.0.qualifier becomes 1.0.0-SNAPSHOT.
func MavenVersion(version string) string {
	numeric, qualifier := splitQualifier(version)
	if qualifier == "qualifier" {
		return numeric + "-SNAPSHOT"
	}
	if qualifier != "" {
		return numeric + "." + qualifier
	}
	return numeric
}
