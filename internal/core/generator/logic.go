package generator

import (
	"regexp"

	"github.com/nightconcept/bundlewright/internal/core/component"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	modelPattern      = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
)

// EventTopics are the model event annotations an event delegate can handle.
var EventTopics = []string{"BeforeNew", "AfterNew", "BeforeChange", "AfterChange", "BeforeDelete", "AfterDelete"}

func identifierParam(ctx Context, key, def string) (string, error) {
	v := ctx.Param(key, def)
	if !identifierPattern.MatchString(v) {
		return "", invalidParam(key, v, "expected a table or column name")
	}
	return v, nil
}

type calloutKind struct{}

func (calloutKind) kind() component.Kind { return component.Callout }
func (calloutKind) suffix() string       { return "Callout" }

func (calloutKind) emit(e *emission, n names) error {
	table, err := identifierParam(e.ctx, "table", "C_Order")
	if err != nil {
		return err
	}
	column, err := identifierParam(e.ctx, "column", "C_BPartner_ID")
	if err != nil {
		return err
	}
	if err := e.java("java/callout", n.Class, RoleClass, "", map[string]any{"Table": table, "Column": column}); err != nil {
		return err
	}
	return e.calloutFactory()
}

type processKind struct{}

func (processKind) kind() component.Kind { return component.Process }
func (processKind) suffix() string       { return "Process" }

func (processKind) emit(e *emission, n names) error {
	if err := e.java("java/process", n.Class, RoleClass, "", nil); err != nil {
		return err
	}
	return e.processFactory()
}

type reportKind struct{}

func (reportKind) kind() component.Kind { return component.Report }
func (reportKind) suffix() string       { return "Report" }

// emit writes the launching process and its Jasper design. The design is
// copied verbatim since its $P{} expressions are not template syntax.
func (reportKind) emit(e *emission, n names) error {
	if err := e.java("java/report", n.Class, RoleClass, "", map[string]any{"Report": n.Base}); err != nil {
		return err
	}
	if err := e.resource("report.jrxml", "reports/"+n.Base+".jrxml"); err != nil {
		return err
	}
	return e.processFactory()
}

type eventKind struct{}

func (eventKind) kind() component.Kind { return component.Event }
func (eventKind) suffix() string       { return "EventDelegate" }

func (eventKind) emit(e *emission, n names) error {
	topic := e.ctx.Param("topic", "AfterChange")
	known := false
	for _, t := range EventTopics {
		if t == topic {
			known = true
			break
		}
	}
	if !known {
		return invalidParam("topic", topic, "expected one of BeforeNew, AfterNew, BeforeChange, AfterChange, BeforeDelete, AfterDelete")
	}
	model := e.ctx.Param("model", "MOrder")
	if !modelPattern.MatchString(model) {
		return invalidParam("model", model, "expected a model class such as MOrder")
	}
	if err := e.java("java/event_delegate", n.Class, RoleClass, "", map[string]any{"Topic": topic, "Model": model}); err != nil {
		return err
	}
	return e.eventManager()
}
