// Package initcmd implements `bwr init`, the fresh scaffold of a plugin
// project.
package initcmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/config"
	"github.com/nightconcept/bundlewright/internal/core/engine"
	"github.com/nightconcept/bundlewright/internal/core/project"
)

// GetInitCommand returns the definition for the "init" command.
func GetInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new iDempiere plugin project",
		ArgsUsage: "<plugin-id> [directory]",
		Description: "Creates the bundle manifest, build files and source folder, then generates one\n" +
			"component per --with kind. The directory defaults to the current one.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "with",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Component kind to generate (repeatable): %s", strings.Join(component.Names(), ", ")),
			},
			&cli.StringFlag{
				Name:    "platform",
				Usage:   "Target platform: v11 or v12",
				EnvVars: []string{"BWR_PLATFORM"},
			},
			&cli.StringFlag{
				Name:    "bundle-version",
				Usage:   "Bundle version",
				EnvVars: []string{"BWR_VERSION"},
			},
			&cli.StringFlag{
				Name:    "vendor",
				Usage:   "Bundle vendor",
				EnvVars: []string{"BWR_VENDOR"},
			},
			&cli.BoolFlag{
				Name:    "multi-module",
				Aliases: []string{"m"},
				Usage:   "Lay the plugin out under a Tycho aggregator",
			},
			&cli.BoolFlag{
				Name:  "feature",
				Usage: "Add a distribution feature and p2 site (multi-module only)",
			},
			&cli.BoolFlag{
				Name:  "ui",
				Usage: "Add a UI extension module (multi-module only)",
			},
			&cli.BoolFlag{
				Name:  "save-config",
				Usage: "Store the effective defaults in " + config.FileName,
			},
			cmdutil.ParamFlag(),
			cmdutil.PromptFlag(),
		},
		Action: action,
	}
}

func action(c *cli.Context) error {
	id := c.Args().First()
	if id == "" || c.NArg() > 2 {
		return cmdutil.Usage("expected <plugin-id> [directory]")
	}
	dir := "."
	if c.NArg() == 2 {
		dir = c.Args().Get(1)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return cmdutil.Exit(apperr.IO("load configuration", config.FileName, err))
	}

	req := engine.InitRequest{
		Dir:         dir,
		PluginID:    id,
		Version:     stringOr(c, "bundle-version", cfg.Defaults.Version),
		Vendor:      stringOr(c, "vendor", cfg.Defaults.Vendor),
		Platform:    project.Platform(stringOr(c, "platform", cfg.Defaults.Platform)),
		Prompt:      c.String("prompt"),
		MultiModule: boolOr(c, "multi-module", cfg.Defaults.MultiModule),
		Feature:     boolOr(c, "feature", cfg.Defaults.Feature),
		UI:          boolOr(c, "ui", cfg.Defaults.UI),
	}
	if req.Feature || req.UI {
		// feature and UI modules only exist in a multi-module layout
		req.MultiModule = req.MultiModule || !c.IsSet("multi-module")
	}
	if req.Platform != "" {
		if req.Platform, err = project.ParsePlatform(string(req.Platform)); err != nil {
			return cmdutil.Exit(apperr.Input("parse platform", err))
		}
	}
	for _, name := range c.StringSlice("with") {
		for _, part := range strings.Split(name, ",") {
			kind, err := component.Parse(part)
			if err != nil {
				return cmdutil.Exit(apperr.Input("parse kind", fmt.Errorf("%w: %v", apperr.ErrUnknownKind, err)))
			}
			req.Features = append(req.Features, kind)
		}
	}
	if req.Params, err = cmdutil.ParseParams(c.StringSlice("param")); err != nil {
		return cmdutil.Exit(err)
	}

	if _, err := cmdutil.Engine(c).Init(req); err != nil {
		return cmdutil.Exit(err)
	}

	if c.Bool("save-config") {
		saved := &config.Config{Defaults: config.Defaults{
			Vendor:      req.Vendor,
			Platform:    string(req.Platform),
			MultiModule: &req.MultiModule,
			Feature:     &req.Feature,
			UI:          &req.UI,
		}}
		if req.Version != "" && req.Version != project.DefaultVersion {
			saved.Defaults.Version = req.Version
		}
		if err := config.Write(dir, saved); err != nil {
			return cmdutil.Exit(apperr.IO("save configuration", filepath.Join(dir, config.FileName), err))
		}
		cmdutil.Reporter(c).Info("saved defaults to %s", config.FileName)
	}
	return nil
}

// stringOr prefers an explicit flag over the configured default.
func stringOr(c *cli.Context, name, def string) string {
	if c.IsSet(name) || def == "" {
		return c.String(name)
	}
	return def
}

func boolOr(c *cli.Context, name string, def *bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return config.Bool(def, c.Bool(name))
}
