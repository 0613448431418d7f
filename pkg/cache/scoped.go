package cache

// ScopedKeyer prefixes the keys of another Keyer. The CLI scopes keys by
// release (see buildinfo.CacheScope) so a layout computed by one version
// of the layout engine is never read back by another.
type ScopedKeyer struct {
	Keyer
	Scope string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{Keyer: inner, Scope: scope}
}

func (k ScopedKeyer) LayoutKey(traceHash string, opts LayoutKeyOpts) string {
	return k.Scope + k.Keyer.LayoutKey(traceHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Scope + k.Keyer.ArtifactKey(layoutHash, opts)
}
