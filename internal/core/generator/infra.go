package generator

import (
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/render"
)

// Infrastructure class suffixes, appended to the plugin base name.
const (
	ActivatorSuffix      = "Activator"
	CalloutFactorySuffix = "CalloutFactory"
	ProcessFactorySuffix = "ProcessFactory"
	EventManagerSuffix   = "EventManager"
)

// factoryRanking beats the core factories so the plugin's classes win.
var factoryRanking = []render.Property{{Name: "service.ranking", Type: "Integer", Value: "100"}}

func (e *emission) activator() error {
	return e.infra(component.Activator, func() error {
		class := e.ctx.PluginBase() + ActivatorSuffix
		before := len(e.result.Created)
		if err := e.java("java/activator", class, RoleInfrastructure, component.Activator, nil); err != nil {
			return err
		}
		if len(e.result.Created) > before {
			e.activatorClass = e.ctx.fqcn(class)
		}
		return nil
	})
}

func (e *emission) calloutFactory() error {
	return e.infra(component.CalloutFactory, func() error {
		class := e.ctx.PluginBase() + CalloutFactorySuffix
		if err := e.java("java/callout_factory", class, RoleInfrastructure, component.CalloutFactory, nil); err != nil {
			return err
		}
		return e.component(serviceComponent{
			class:      class,
			services:   []string{"org.adempiere.base.IColumnCalloutFactory"},
			properties: factoryRanking,
		})
	})
}

func (e *emission) processFactory() error {
	return e.infra(component.ProcessFactory, func() error {
		class := e.ctx.PluginBase() + ProcessFactorySuffix
		if err := e.java("java/process_factory", class, RoleInfrastructure, component.ProcessFactory, nil); err != nil {
			return err
		}
		return e.component(serviceComponent{
			class:      class,
			services:   []string{"org.adempiere.base.IProcessFactory"},
			properties: factoryRanking,
		})
	})
}

func (e *emission) eventManager() error {
	return e.infra(component.EventManager, func() error {
		class := e.ctx.PluginBase() + EventManagerSuffix
		if err := e.java("java/event_manager", class, RoleInfrastructure, component.EventManager, nil); err != nil {
			return err
		}
		return e.component(serviceComponent{
			class: class,
			references: []render.Reference{{
				Name:      "IEventManager",
				Interface: "org.adempiere.base.event.IEventManager",
				Bind:      "bindEventManager",
				Unbind:    "unbindEventManager",
			}},
		})
	})
}
