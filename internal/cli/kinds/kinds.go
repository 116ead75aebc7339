// Package kinds implements `bwr kinds`, the catalogue of component kinds.
package kinds

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/core/generator"
	"github.com/nightconcept/bundlewright/internal/core/project"
)

// KindsCmd lists the component kinds, the shared infrastructure each needs
// and the supported platforms.
var KindsCmd = &cli.Command{
	Name:  "kinds",
	Usage: "Lists component kinds and target platforms",
	Action: func(c *cli.Context) error {
		nameColor := color.New(color.FgCyan, color.Bold).SprintFunc()
		infraColor := color.New(color.FgHiBlack).SprintFunc()
		headerColor := color.New(color.FgMagenta, color.Bold).SprintFunc()
		w := c.App.Writer

		_, _ = fmt.Fprintln(w, headerColor("kinds:"))
		for _, k := range generator.Kinds() {
			needs := make([]string, 0, 1)
			for _, in := range k.Infrastructure() {
				needs = append(needs, string(in))
			}
			line := fmt.Sprintf("  %-10s %s", nameColor(k), k.Description())
			if len(needs) > 0 {
				line += " " + infraColor("(needs "+strings.Join(needs, ", ")+")")
			}
			_, _ = fmt.Fprintln(w, line)
		}

		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, headerColor("platforms:"))
		for _, p := range project.Platforms() {
			spec := p.Spec()
			marker := ""
			if p == project.DefaultPlatform {
				marker = " (default)"
			}
			_, _ = fmt.Fprintf(w, "  %-10s Java %s, Tycho %s, DS %s, %s%s\n",
				nameColor(p), spec.JavaVersion, spec.TychoVersion, spec.DSVersion, spec.ExecutionEnvironment, marker)
		}
		return nil
	},
}
