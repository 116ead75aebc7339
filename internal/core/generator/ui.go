package generator

import "github.com/nightconcept/bundlewright/internal/core/component"

// ControllerSuffix names the controller class paired with a form.
const ControllerSuffix = "Controller"

type formKind struct{}

func (formKind) kind() component.Kind { return component.Form }
func (formKind) suffix() string       { return "Form" }

// emit writes the form, its controller and the ZUL layout. The layout is
// copied verbatim since ZK's ${} expressions collide with template syntax.
func (formKind) emit(e *emission, n names) error {
	controller := n.Class + ControllerSuffix
	if err := e.java("java/form", n.Class, RoleClass, "", map[string]any{"Zul": n.Base, "Controller": controller}); err != nil {
		return err
	}
	if err := e.java("java/form_controller", controller, RoleClass, "", nil); err != nil {
		return err
	}
	if err := e.resource("form.zul", "web/zul/"+n.Base+".zul"); err != nil {
		return err
	}
	return e.activator()
}

type validatorKind struct{}

func (validatorKind) kind() component.Kind { return component.Validator }
func (validatorKind) suffix() string       { return "ModelValidator" }

func (validatorKind) emit(e *emission, n names) error {
	table, err := identifierParam(e.ctx, "table", "C_Order")
	if err != nil {
		return err
	}
	if err := e.java("java/model_validator", n.Class, RoleClass, "", map[string]any{"Table": table}); err != nil {
		return err
	}
	return e.activator()
}
