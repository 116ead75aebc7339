// Package add implements `bwr add`, which adds one component to an existing
// plugin.
package add

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/engine"
)

// AddCommand defines the structure for the "add" command.
var AddCommand = &cli.Command{
	Name:      "add",
	Usage:     "Adds a component to the plugin in the current directory",
	ArgsUsage: "<kind> <ClassName>",
	Description: fmt.Sprintf("Generates the component class and whatever shared infrastructure the plugin\n"+
		"does not have yet, then merges the manifest. Kinds: %s", strings.Join(component.Names(), ", ")),
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Usage:   "Directory inside the target project",
			Value:   ".",
		},
		cmdutil.ParamFlag(),
		cmdutil.PromptFlag(),
	},
	Action: func(cCtx *cli.Context) error {
		if cCtx.NArg() != 2 {
			return cmdutil.Usage("<kind> and <ClassName> arguments are required")
		}
		kind, err := component.Parse(cCtx.Args().Get(0))
		if err != nil {
			return cmdutil.Exit(apperr.Input("parse kind", fmt.Errorf("%w: %v", apperr.ErrUnknownKind, err)))
		}
		params, err := cmdutil.ParseParams(cCtx.StringSlice("param"))
		if err != nil {
			return cmdutil.Exit(err)
		}

		_, err = cmdutil.Engine(cCtx).AddComponent(engine.AddRequest{
			Dir:    cCtx.String("directory"),
			Kind:   kind,
			Name:   cCtx.Args().Get(1),
			Prompt: cCtx.String("prompt"),
			Params: params,
		})
		return cmdutil.Exit(err)
	},
}
