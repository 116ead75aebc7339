package list

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/ledger"
	"github.com/nightconcept/bundlewright/internal/core/project"
)

// ListCmd defines the structure for the 'list' command.
var ListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "Displays generated files and whether they changed since generation",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "modified",
			Usage: "Only show files that were edited or removed",
		},
	},
	Action: func(c *cli.Context) error {
		d, err := project.Derive(".")
		if err != nil {
			return cmdutil.Exit(err)
		}
		if _, err := os.Stat(filepath.Join(d.Root, ledger.FileName)); err != nil {
			return cmdutil.Exit(apperr.State("list", d.Root, fmt.Errorf("%s not found; nothing was generated here", ledger.FileName)))
		}
		l, err := ledger.Load(d.Root)
		if err != nil {
			return cmdutil.Exit(apperr.IO("load ledger", ledger.FileName, err))
		}
		statuses, err := l.Verify(d.Root)
		if err != nil {
			return cmdutil.Exit(apperr.IO("verify ledger", d.Root, err))
		}

		projectNameColor := color.New(color.FgMagenta, color.Bold, color.Underline).SprintFunc()
		projectVersionColor := color.New(color.FgMagenta).SprintFunc()
		projectPathColor := color.New(color.FgHiBlack, color.Bold, color.Underline).SprintFunc()
		headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
		kindColor := color.New(color.FgWhite).SprintFunc()
		pathColor := color.New(color.FgHiBlack).SprintFunc()
		stateColor := map[ledger.State]func(a ...interface{}) string{
			ledger.StateUnchanged: color.New(color.FgGreen).SprintFunc(),
			ledger.StateModified:  color.New(color.FgYellow).SprintFunc(),
			ledger.StateMissing:   color.New(color.FgRed).SprintFunc(),
		}

		w := c.App.Writer
		_, _ = fmt.Fprintf(w, "%s@%s %s %s\n", projectNameColor(d.ID), projectVersionColor(d.Version), d.Platform, projectPathColor(d.Root))
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, headerColor("generated:"))

		shown := 0
		for _, s := range statuses {
			if c.Bool("modified") && s.State == ledger.StateUnchanged {
				continue
			}
			shown++
			_, _ = fmt.Fprintf(w, "%-9s %s %s\n", stateColor[s.State](s.State), kindColor(s.Entry.Kind), pathColor(s.Path))
		}
		if shown == 0 {
			_, _ = fmt.Fprintln(w, "No generated files to show.")
		}
		return nil
	},
}
