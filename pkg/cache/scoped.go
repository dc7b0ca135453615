package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without reading each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "weavr:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FixKey generates a prefixed key for fix results.
func (k *ScopedKeyer) FixKey(inputHash string, opts FixKeyOpts) string {
	return k.prefix + k.inner.FixKey(inputHash, opts)
}

// AuditKey generates a prefixed key for audit reports.
func (k *ScopedKeyer) AuditKey(inputHash string) string {
	return k.prefix + k.inner.AuditKey(inputHash)
}
