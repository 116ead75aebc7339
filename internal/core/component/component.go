// Package component names the closed set of component kinds the scaffolder
// can generate and the shared infrastructure each kind depends on.
package component

import (
	"fmt"
	"strings"
)

// Kind identifies a component kind.
type Kind string

const (
	Callout   Kind = "callout"
	Process   Kind = "process"
	Report    Kind = "report"
	Event     Kind = "event"
	Validator Kind = "validator"
	Form      Kind = "form"
	Rest      Kind = "rest"
	Test      Kind = "test"
)

// Infra identifies a piece of shared infrastructure: a single generated
// artifact that several component kinds depend on.
type Infra string

const (
	Activator      Infra = "activator"
	CalloutFactory Infra = "callout-factory"
	EventManager   Infra = "event-manager"
	ProcessFactory Infra = "process-factory"
)

// ordered is the canonical kind order. Generators run in this order during a
// fresh scaffold, so the earliest kind needing a piece of infrastructure owns it.
var ordered = []Kind{Callout, Process, Report, Event, Validator, Form, Rest, Test}

var infra = map[Kind][]Infra{
	Callout:   {CalloutFactory},
	Process:   {ProcessFactory},
	Report:    {ProcessFactory},
	Event:     {EventManager},
	Validator: {Activator},
	Form:      {Activator},
}

var descriptions = map[Kind]string{
	Callout:   "column callout (business logic on field change)",
	Process:   "server process",
	Report:    "Jasper report with its launching process",
	Event:     "model event delegate",
	Validator: "model validator registered by the bundle activator",
	Form:      "ZK custom form",
	Rest:      "JAX-RS REST resource",
	Test:      "JUnit test case",
}

// All returns every kind in canonical order.
func All() []Kind {
	out := make([]Kind, len(ordered))
	copy(out, ordered)
	return out
}

// Parse resolves s (case-insensitive) to a Kind.
func Parse(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ordered {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown component kind %q (known: %s)", s, strings.Join(Names(), ", "))
}

// Names returns the kind identifiers in canonical order.
func Names() []string {
	names := make([]string, len(ordered))
	for i, k := range ordered {
		names[i] = string(k)
	}
	return names
}

// Infrastructure lists the shared infrastructure k depends on.
func (k Kind) Infrastructure() []Infra {
	return infra[k]
}

// Needs reports whether k depends on in.
func (k Kind) Needs(in Infra) bool {
	for _, candidate := range infra[k] {
		if candidate == in {
			return true
		}
	}
	return false
}

// Description is a one-line human description of k.
func (k Kind) Description() string {
	return descriptions[k]
}

// Rank is k's position in the canonical order, or -1 for unknown kinds.
func (k Kind) Rank() int {
	for i, known := range ordered {
		if k == known {
			return i
		}
	}
	return -1
}
