// Package spec implements composable predicates over record collections.
// A Spec is a pure filter: it returns a new, order-preserving subset of its
// input and never mutates the collection it was given. Specs compose with
// And, Or, and Not; composing produces a new Spec, the operands are reused
// as-is. One generic engine serves both sites and policies.
package spec

// Record is the accessor surface a filterable record must expose.
type Record interface {
	// RecordID returns the stable identifier used for identity-based
	// union dedup and negation.
	RecordID() string
	// StateCode returns the two-letter state code.
	StateCode() string
	// StatusText returns the status field (remediation or policy status).
	StatusText() string
	// CategoryText returns the type/coverage field.
	CategoryText() string
	// SearchText returns the free-text field contaminant queries match.
	SearchText() string
	// Value returns the monetary value, ok=false when the record has none.
	Value() (float64, bool)
	// Coordinates returns the record location, ok=false when unusable.
	Coordinates() (lat, lon float64, ok bool)
}

// Spec filters a record collection down to the records satisfying it.
type Spec[T Record] interface {
	Filter(in []T) []T
}

// Func adapts a per-record predicate into a Spec.
type Func[T Record] func(T) bool

// Filter implements Spec.
func (f Func[T]) Filter(in []T) []T {
	if len(in) == 0 {
		return []T{}
	}
	out := make([]T, 0, len(in))
	for _, r := range in {
		if f(r) {
			out = append(out, r)
		}
	}
	return out
}
