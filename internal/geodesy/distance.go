// Package geodesy computes real-world distances between coordinate pairs on
// the WGS84 ellipsoid. Production queries work in miles; meters are exposed
// for callers that need them.
package geodesy

import "math"

// WGS84 ellipsoid parameters.
const (
	semiMajorAxis = 6378137.0           // meters
	flattening    = 1 / 298.257223563   // WGS84 inverse flattening
	semiMinorAxis = semiMajorAxis * (1 - flattening)

	metersPerMile = 1609.344

	// Vincenty iteration controls. 1e-12 converges to well under a
	// millimeter; nearly antipodal points may not converge at all.
	convergence   = 1e-12
	maxIterations = 200
)

// Miles returns the geodesic distance between two points in statute miles.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	return Meters(lat1, lon1, lat2, lon2) / metersPerMile
}

// Meters returns the geodesic distance between two points in meters, using
// Vincenty's inverse formula on WGS84. For the rare nearly-antipodal pairs
// where Vincenty fails to converge it falls back to a spherical haversine,
// which agrees with the geodesic result to well within 0.5%.
func Meters(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	if d, ok := vincenty(lat1, lon1, lat2, lon2); ok {
		return d
	}
	return haversine(lat1, lon1, lat2, lon2)
}

// vincenty runs the inverse formula. ok is false when the iteration did not
// converge.
func vincenty(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	l := (lon2 - lon1) * math.Pi / 180

	u1 := math.Atan((1 - flattening) * math.Tan(phi1))
	u2 := math.Atan((1 - flattening) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, sinAlpha, cosSqAlpha, cos2SigmaM float64

	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return 0, true // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			cos2SigmaM = 0 // equatorial line
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = l + (1-c)*flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-lambdaPrev) < convergence {
			uSq := cosSqAlpha * (semiMajorAxis*semiMajorAxis - semiMinorAxis*semiMinorAxis) / (semiMinorAxis * semiMinorAxis)
			a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := b * sinSigma * (cos2SigmaM + b/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return semiMinorAxis * a * (sigma - deltaSigma), true
		}
	}
	return 0, false
}

// haversine is the spherical fallback, using the WGS84 mean radius.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const meanRadius = 6371008.8 // meters

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)
	h := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	return 2 * meanRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}
