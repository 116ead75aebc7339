// Package apperr classifies scaffolding failures into the categories the CLI
// reports through its exit code.
package apperr

import (
	"errors"
	"fmt"
)

// Category is the failure class of an Error.
type Category int

const (
	// CategoryInput covers malformed names, identifiers and missing options.
	// Detected before any file I/O.
	CategoryInput Category = iota + 1
	// CategoryIO covers filesystem failures, unreadable templates and
	// descriptors that cannot be parsed.
	CategoryIO
	// CategoryState covers a target that is not a recognisable project, a
	// missing multi-module root or a module directory that already exists.
	CategoryState
)

// Exit codes reported by the bwr binary.
const (
	ExitOK    = 0
	ExitInput = 1
	ExitIO    = 2
	ExitState = 3
)

var (
	ErrInvalidName   = errors.New("invalid name")
	ErrUnknownKind   = errors.New("unknown component kind")
	ErrNoManifest    = errors.New("no bundle manifest found")
	ErrNoIdentity    = errors.New("plugin has no usable symbolic name")
	ErrNoAggregator  = errors.New("no multi-module aggregator found")
	ErrModuleExists  = errors.New("module directory already exists")
	ErrProjectExists = errors.New("project already initialised")
)

func (c Category) String() string {
	switch c {
	case CategoryInput:
		return "input error"
	case CategoryIO:
		return "i/o error"
	case CategoryState:
		return "state error"
	default:
		return "error"
	}
}

// Error is a classified failure. Op names the check or step that failed and
// Path, when set, is the file or directory involved.
type Error struct {
	Category Category
	Op       string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Input returns an input error for op.
func Input(op string, err error) error {
	return &Error{Category: CategoryInput, Op: op, Err: err}
}

// Inputf returns an input error wrapping ErrInvalidName with a formatted detail.
func Inputf(op, format string, args ...any) error {
	return &Error{Category: CategoryInput, Op: op, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidName}, args...)...)}
}

// State returns a structural-state error for op at path.
func State(op, path string, err error) error {
	return &Error{Category: CategoryState, Op: op, Path: path, Err: err}
}

// IO returns an I/O error for op at path.
func IO(op, path string, err error) error {
	return &Error{Category: CategoryIO, Op: op, Path: path, Err: err}
}

// CategoryOf reports the category of err, or 0 when err carries none.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return 0
}

// ExitCode maps err to the process exit code. Unclassified errors are
// reported as I/O errors since every remaining failure path is filesystem work.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch CategoryOf(err) {
	case CategoryInput:
		return ExitInput
	case CategoryState:
		return ExitState
	default:
		return ExitIO
	}
}
