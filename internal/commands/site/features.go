package sitecmd

// FeatureGates exposes runtime feature toggles required by site command
// handlers. Callers supply closures reading from the runtime configuration so
// handlers stay decoupled from it.
type FeatureGates struct {
	GeneratorEnabled func() bool
	LintEnabled      func() bool
	LinksEnabled     func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}

func (g FeatureGates) lintEnabled() bool {
	if g.LintEnabled == nil {
		return true
	}
	return g.LintEnabled()
}

func (g FeatureGates) linksEnabled() bool {
	if g.LinksEnabled == nil {
		return true
	}
	return g.LinksEnabled()
}
