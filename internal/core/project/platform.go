package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Platform is a supported target platform release.
type Platform string

const (
	V11 Platform = "v11"
	V12 Platform = "v12"
)

// DefaultPlatform is used when nothing on disk pins a platform.
const DefaultPlatform = V12

// PlatformSpec is the toolchain tuple a platform fixes.
type PlatformSpec struct {
	Name                 Platform
	JavaVersion          string
	TychoVersion         string
	DSVersion            string // declarative services schema
	Branch               string // default source branch of the platform
	ExecutionEnvironment string
}

var platforms = []PlatformSpec{
	{
		Name:                 V11,
		JavaVersion:          "11",
		TychoVersion:         "2.7.5",
		DSVersion:            "1.3.0",
		Branch:               "release-11",
		ExecutionEnvironment: "JavaSE-11",
	},
	{
		Name:                 V12,
		JavaVersion:          "17",
		TychoVersion:         "4.0.8",
		DSVersion:            "1.4.0",
		Branch:               "master",
		ExecutionEnvironment: "JavaSE-17",
	},
}

// Tycho 3 dropped Java 11 runtimes, which is where v12 starts.
var v12Tycho = mustConstraint(">= 3.0.0-0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Platforms lists the supported platforms, oldest first.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, p.Name)
	}
	return out
}

// Spec returns the toolchain tuple of p. Unknown values yield the default.
func (p Platform) Spec() PlatformSpec {
	for _, spec := range platforms {
		if spec.Name == p {
			return spec
		}
	}
	return DefaultPlatform.Spec()
}

// ParsePlatform accepts "v11", "11", "V12" and the like.
func ParsePlatform(s string) (Platform, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	for _, spec := range platforms {
		if string(spec.Name) == norm {
			return spec.Name, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q (supported: %s)", s, strings.Join(platformNames(), ", "))
}

func platformNames() []string {
	var names []string
	for _, p := range Platforms() {
		names = append(names, string(p))
	}
	return names
}

// PlatformForTycho maps a tycho.version value to a platform. ok is false when
// the value does not parse; Maven property references such as ${x} never do.
func PlatformForTycho(version string) (Platform, bool) {
	v, err := semver.NewVersion(strings.TrimSpace(version))
	if err != nil {
		return "", false
	}
	if v12Tycho.Check(v) {
		return V12, true
	}
	return V11, true
}
