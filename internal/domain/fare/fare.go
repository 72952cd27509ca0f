// Package fare implements the pricing model: great-circle distance plus a
// time-of-day multiplier. Every function here is pure and deterministic; the
// same inputs always produce the same output, so an estimate computed at
// request time and a settlement computed at completion time are both
// independently reproducible for auditing.
package fare

import (
	"math"
	"time"
)

// Pricing configuration.
const (
	BaseFare        = 5.00 // flat component of every fare
	CostPerKM       = 2.50
	PeakMultiplier  = 1.5 // hours [7,9) and [17,19)
	NightMultiplier = 1.3 // hours >= 22 and < 6
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle (haversine) distance between a and b in
// kilometers, using an earth radius of 6371 km. Distance(a,b) == Distance(b,a)
// and Distance(a,a) == 0.
func Distance(a, b Point) float64 {
	const earthRadiusKM = 6371.0

	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dla := (b.Lat - a.Lat) * math.Pi / 180
	dln := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dla/2)*math.Sin(dla/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dln/2)*math.Sin(dln/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

// Fare returns base + distance * per-km rate, scaled by the multiplier in
// effect at the local hour of `at`, rounded half-up to 2 decimal places.
func Fare(distanceKM float64, at time.Time) float64 {
	if distanceKM < 0 {
		distanceKM = 0
	}

	amount := BaseFare + CostPerKM*distanceKM
	amount *= MultiplierFor(at.Hour())

	return Round2(amount)
}

// MultiplierFor returns the single multiplier applied for a local hour. The
// peak and night windows do not overlap, so exactly one of {peak, night,
// standard} applies to any hour.
func MultiplierFor(hour int) float64 {
	switch {
	case (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19):
		return PeakMultiplier
	case hour >= 22 || hour < 6:
		return NightMultiplier
	default:
		return 1.0
	}
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
