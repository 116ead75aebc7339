// Package cmdutil holds the plumbing every bwr command shares: building the
// engine from the global flags and turning errors into exit codes.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/engine"
	"github.com/nightconcept/bundlewright/internal/core/report"
)

// VerboseFlag enables debug logging on stderr.
var VerboseFlag = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "Log what the engine does to stderr",
	EnvVars: []string{"BWR_VERBOSE"},
}

func stdout(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// Logger returns the diagnostic logger: debug when --verbose is set,
// warnings only otherwise.
func Logger(c *cli.Context) *log.Logger {
	level := log.WarnLevel
	if c.Bool(VerboseFlag.Name) {
		level = log.DebugLevel
	}
	return log.NewWithOptions(stderr(c), log.Options{
		Prefix: "bwr",
		Level:  level,
	})
}

// Reporter prints user-facing notices to the app's writer.
func Reporter(c *cli.Context) *report.Reporter {
	return report.New(stdout(c))
}

// Engine builds an engine wired to the command's logger and reporter.
func Engine(c *cli.Context, opts ...engine.Option) *engine.Engine {
	base := []engine.Option{engine.WithLogger(Logger(c)), engine.WithReporter(Reporter(c))}
	return engine.New(append(base, opts...)...)
}

// Exit maps err to the process exit code of its category.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(fmt.Sprintf("Error: %v", err), apperr.ExitCode(err))
}

// Usage reports a command line mistake with the input exit code.
func Usage(format string, args ...any) error {
	return cli.Exit("Error: "+fmt.Sprintf(format, args...), apperr.ExitInput)
}

// ParseParams turns repeated key=value flags into a map.
func ParseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, apperr.Inputf("parse parameters", "parameter %q is not key=value", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

// ParamFlag returns the repeatable --param flag.
func ParamFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "param",
		Aliases: []string{"p"},
		Usage:   "Generator parameter as key=value, e.g. table=C_Order (repeatable)",
	}
}

// PromptFlag returns the flag carrying the free-text description handed to
// content sources.
func PromptFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "prompt",
		Usage: "Describe what the generated class should do",
	}
}
