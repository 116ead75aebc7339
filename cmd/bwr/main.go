package main

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/cli/add"
	"github.com/nightconcept/bundlewright/internal/cli/check"
	"github.com/nightconcept/bundlewright/internal/cli/cmdutil"
	"github.com/nightconcept/bundlewright/internal/cli/initcmd"
	"github.com/nightconcept/bundlewright/internal/cli/kinds"
	"github.com/nightconcept/bundlewright/internal/cli/list"
	"github.com/nightconcept/bundlewright/internal/cli/module"
	"github.com/nightconcept/bundlewright/internal/core/apperr"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "bwr",
		Usage:     "Scaffolds iDempiere OSGi plugins and grows them incrementally",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     []cli.Flag{cmdutil.VerboseFlag},
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			initcmd.GetInitCommand(),
			add.AddCommand,
			module.ModuleCmd,
			list.ListCmd,
			check.CheckCmd,
			kinds.KindsCmd,
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// run executes the app and returns the process exit code. Commands classify
// their failures with cli.Exit; anything unclassified is a flag or argument
// parse error and exits with the input code.
func run(args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return apperr.ExitOK
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		if msg := err.Error(); msg != "" {
			_, _ = io.WriteString(stderr, msg+"\n")
		}
		return coder.ExitCode()
	}
	log.NewWithOptions(stderr, log.Options{Prefix: "bwr"}).Error(err)
	return apperr.ExitInput
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
