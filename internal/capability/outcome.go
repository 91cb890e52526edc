package capability

// Outcome carries the result of one external-capability call. A degraded
// outcome holds a usable fallback value together with the reason the real
// call could not produce one, so callers (and tests) can tell genuine
// results from substituted defaults without error plumbing.
type Outcome[T any] struct {
	Value    T      `json:"value"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// Ok wraps a genuine result.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degraded wraps a fallback value substituted after a capability failure.
func Degraded[T any](fallback T, reason string) Outcome[T] {
	return Outcome[T]{Value: fallback, Degraded: true, Reason: reason}
}
