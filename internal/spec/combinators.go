package spec

// andSpec applies its second child to the first child's output. Sequential
// narrowing rather than independent intersection: later predicates see only
// what earlier ones let through.
type andSpec[T Record] struct {
	a, b Spec[T]
}

func (s andSpec[T]) Filter(in []T) []T {
	return s.b.Filter(s.a.Filter(in))
}

// And combines two specs so that a record must satisfy both.
func And[T Record](a, b Spec[T]) Spec[T] {
	return andSpec[T]{a: a, b: b}
}

// orSpec unions the results of both children against the original input,
// deduplicating by record identifier. Identity-based dedup keeps
// field-identical but distinct records apart.
type orSpec[T Record] struct {
	a, b Spec[T]
}

func (s orSpec[T]) Filter(in []T) []T {
	left := s.a.Filter(in)
	right := s.b.Filter(in)

	out := make([]T, 0, len(left)+len(right))
	seen := make(map[string]struct{}, len(left))
	for _, r := range left {
		if _, dup := seen[r.RecordID()]; dup {
			continue
		}
		seen[r.RecordID()] = struct{}{}
		out = append(out, r)
	}
	for _, r := range right {
		if _, dup := seen[r.RecordID()]; dup {
			continue
		}
		seen[r.RecordID()] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Or combines two specs so that a record satisfying either survives.
func Or[T Record](a, b Spec[T]) Spec[T] {
	return orSpec[T]{a: a, b: b}
}

// notSpec returns the input records whose identity is absent from the
// child's result.
type notSpec[T Record] struct {
	inner Spec[T]
}

func (s notSpec[T]) Filter(in []T) []T {
	matched := s.inner.Filter(in)
	exclude := make(map[string]struct{}, len(matched))
	for _, r := range matched {
		exclude[r.RecordID()] = struct{}{}
	}

	out := make([]T, 0, len(in))
	for _, r := range in {
		if _, hit := exclude[r.RecordID()]; !hit {
			out = append(out, r)
		}
	}
	return out
}

// Not negates a spec by identity-based exclusion from the original input.
func Not[T Record](s Spec[T]) Spec[T] {
	return notSpec[T]{inner: s}
}
