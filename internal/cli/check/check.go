// Package check implements `bwr check`, a structural lint of a plugin tree.
package check

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/engine"
)

// CheckCmd defines the "check" command. It exits with the state code when
// any finding is an error.
var CheckCmd = &cli.Command{
	Name:  "check",
	Usage: "Reports manifest, service component and module problems",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Usage:   "Directory inside the project to check",
			Value:   ".",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Treat warnings as errors",
		},
	},
	Action: func(c *cli.Context) error {
		findings, err := cmdutil.Engine(c).Check(c.String("directory"))
		if err != nil {
			return cmdutil.Exit(err)
		}

		errColor := color.New(color.FgRed, color.Bold).SprintFunc()
		warnColor := color.New(color.FgYellow).SprintFunc()
		pathColor := color.New(color.FgHiBlack).SprintFunc()
		w := c.App.Writer
		for _, f := range findings {
			label := warnColor(f.Severity)
			if f.Severity == engine.SeverityError {
				label = errColor(f.Severity)
			}
			_, _ = fmt.Fprintf(w, "%s %s %s\n", label, f.Message, pathColor(f.Path))
		}

		failed := engine.HasErrors(findings) || (c.Bool("strict") && len(findings) > 0)
		if failed {
			return cli.Exit(fmt.Sprintf("Error: %d problem(s) found", len(findings)), apperr.ExitState)
		}
		if len(findings) == 0 {
			_, _ = fmt.Fprintln(w, "No problems found.")
		}
		return nil
	},
}
