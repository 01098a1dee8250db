package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several tenants or
// environments can share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// OrderingKey generates a prefixed ordering key.
func (k *ScopedKeyer) OrderingKey(graphHash string, opts OrderingKeyOpts) string {
	return k.prefix + k.inner.OrderingKey(graphHash, opts)
}

// EnumerationKey generates a prefixed enumeration key.
func (k *ScopedKeyer) EnumerationKey(model string, params any, limit int) string {
	return k.prefix + k.inner.EnumerationKey(model, params, limit)
}
