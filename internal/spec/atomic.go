package spec

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siterisk-cli/internal/geodesy"
)

// remediatedStatus is the status value that marks a site as fully
// remediated. Both sides of the comparison are normalized; a site is
// unremediated exactly when its status is not this value, case-insensitively.
const remediatedStatus = "Completed"

// State matches records whose state code equals the target,
// case-insensitively.
func State[T Record](code string) Spec[T] {
	return Func[T](func(r T) bool {
		return strings.EqualFold(strings.TrimSpace(r.StateCode()), strings.TrimSpace(code))
	})
}

// Status matches records whose status equals the target, case-insensitively.
func Status[T Record](status string) Spec[T] {
	return Func[T](func(r T) bool {
		return strings.EqualFold(strings.TrimSpace(r.StatusText()), strings.TrimSpace(status))
	})
}

// Unremediated matches records whose status is anything other than
// "Completed".
func Unremediated[T Record]() Spec[T] {
	return Func[T](func(r T) bool {
		return !strings.EqualFold(strings.TrimSpace(r.StatusText()), remediatedStatus)
	})
}

// TypeContains matches records whose type/coverage field contains the target
// substring, case-insensitively.
func TypeContains[T Record](substr string) Spec[T] {
	needle := strings.ToLower(substr)
	return Func[T](func(r T) bool {
		return strings.Contains(strings.ToLower(r.CategoryText()), needle)
	})
}

// TextContains matches records whose free-text field contains the target
// substring, case-insensitively. Used for contaminant queries.
func TextContains[T Record](substr string) Spec[T] {
	needle := strings.ToLower(substr)
	return Func[T](func(r T) bool {
		return strings.Contains(strings.ToLower(r.SearchText()), needle)
	})
}

// ValueBetween matches records whose value lies in [min, max]; either bound
// may be nil. Records without a value never match when a bound is set.
func ValueBetween[T Record](min, max *float64) (Spec[T], error) {
	if min != nil && max != nil && *min > *max {
		return nil, eris.Errorf("spec: value range min %.2f exceeds max %.2f", *min, *max)
	}
	return Func[T](func(r T) bool {
		v, ok := r.Value()
		if !ok {
			return min == nil && max == nil
		}
		if min != nil && v < *min {
			return false
		}
		if max != nil && v > *max {
			return false
		}
		return true
	}), nil
}

// WithinRadius matches records whose location lies within radiusMiles of the
// center, boundary inclusive. Records without usable coordinates never
// match. Construction fails fast on a negative radius or an out-of-range
// center.
func WithinRadius[T Record](lat, lon, radiusMiles float64) (Spec[T], error) {
	switch {
	case radiusMiles < 0 || math.IsNaN(radiusMiles):
		return nil, eris.Errorf("spec: radius must be non-negative, got %v", radiusMiles)
	case math.IsNaN(lat) || lat < -90 || lat > 90:
		return nil, eris.Errorf("spec: center latitude %v out of range", lat)
	case math.IsNaN(lon) || lon < -180 || lon > 180:
		return nil, eris.Errorf("spec: center longitude %v out of range", lon)
	}
	return Func[T](func(r T) bool {
		rLat, rLon, ok := r.Coordinates()
		if !ok || math.IsNaN(rLat) || math.IsNaN(rLon) {
			return false
		}
		return geodesy.Miles(lat, lon, rLat, rLon) <= radiusMiles
	}), nil
}
