package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This keeps artifacts from different protocols or deployments from
// colliding in a shared backend.
//
// Example usage:
//
//	// Protocol-specific keys
//	protoKeyer := NewScopedKeyer(NewDefaultKeyer(), "proto:rhythm90:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// DocumentKey generates a prefixed key for stamped documents.
func (k *ScopedKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(inputHash, opts)
}

// ChartKey generates a prefixed key for composed charts.
func (k *ScopedKeyer) ChartKey(seriesHash string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(seriesHash, opts)
}

// ExportKey generates a prefixed key for converted artifacts.
func (k *ScopedKeyer) ExportKey(documentHash, format string) string {
	return k.prefix + k.inner.ExportKey(documentHash, format)
}
