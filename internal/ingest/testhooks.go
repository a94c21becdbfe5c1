package ingest

// SetAfterLookupHook installs a callback invoked between the existence check
// and the insert. Tests use it to force the insert race deterministically.
func (g *Gate) SetAfterLookupHook(hook func()) {
	g.afterLookup = hook
}
