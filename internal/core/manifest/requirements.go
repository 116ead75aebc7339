package manifest

import "github.com/nightconcept/bundlewright/internal/core/component"

// Requirements are the bundles and packages a component kind needs on the
// plugin's class path.
type Requirements struct {
	Bundles  []string
	Packages []string
}

const (
	bundleBase        = "org.adempiere.base"
	bundlePluginUtils = "org.adempiere.plugin.utils"
	bundleUI          = "org.adempiere.ui.zk"
	bundleJasper      = "org.adempiere.report.jasper"
	bundleTest        = "org.idempiere.test"
)

var requiredByKind = map[component.Kind]Requirements{
	component.Callout: {
		Bundles: []string{bundleBase},
	},
	component.Process: {
		Bundles: []string{bundleBase},
	},
	component.Report: {
		Bundles: []string{bundleBase, bundleJasper},
	},
	component.Event: {
		Bundles:  []string{bundleBase},
		Packages: []string{"org.osgi.service.event"},
	},
	component.Validator: {
		Bundles:  []string{bundleBase, bundlePluginUtils},
		Packages: []string{"org.osgi.framework"},
	},
	component.Form: {
		Bundles:  []string{bundleBase, bundleUI, bundlePluginUtils, "zcommon", "zk", "zul"},
		Packages: []string{"org.osgi.framework"},
	},
	component.Rest: {
		Bundles:  []string{bundleBase},
		Packages: []string{"jakarta.ws.rs", "jakarta.ws.rs.core"},
	},
	component.Test: {
		Bundles:  []string{bundleBase, bundleTest},
		Packages: []string{"org.junit.jupiter.api"},
	},
}

// RequirementsFor returns the fixed requirements of kind.
func RequirementsFor(kind component.Kind) Requirements {
	req := requiredByKind[kind]
	return Requirements{
		Bundles:  append([]string(nil), req.Bundles...),
		Packages: append([]string(nil), req.Packages...),
	}
}
