// Package module implements `bwr module`, which manages the modules of a
// multi-module project.
package module

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/core/engine"
)

// ModuleCmd defines the "module" command and its subcommands.
var ModuleCmd = &cli.Command{
	Name:  "module",
	Usage: "Manage modules of a multi-module project",
	Subcommands: []*cli.Command{
		addCmd,
	},
}

var addCmd = &cli.Command{
	Name:      "add",
	Usage:     "Adds a plugin, fragment or feature module and registers it",
	ArgsUsage: "<plugin|fragment|feature> <module-id>",
	Description: "The module is created next to the aggregator pom.xml, listed in its <modules>,\n" +
		"and registered in the distribution feature or p2 category when those exist.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "Fragment host bundle (fragments only; defaults to the base plugin)",
		},
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Usage:   "Directory inside the target project",
			Value:   ".",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cmdutil.Usage("<kind> and <module-id> arguments are required")
		}
		kind, err := engine.ParseModuleKind(c.Args().Get(0))
		if err != nil {
			return cmdutil.Exit(err)
		}
		if c.IsSet("host") && kind != engine.ModuleFragment {
			return cmdutil.Usage("--host only applies to fragment modules")
		}

		_, err = cmdutil.Engine(c).AddModule(engine.ModuleRequest{
			Dir:  c.String("directory"),
			Kind: kind,
			ID:   c.Args().Get(1),
			Host: c.String("host"),
		})
		return cmdutil.Exit(err)
	},
}
