package location

import (
	"math"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

const earthRadiusMiles = 3958.8

// neutralScore is returned when either point is unknown.
const neutralScore = 50

var distanceBands = []struct { //nolint:gochecknoglobals // read-only
	below float64
	score float64
}{
	{1, 100},
	{3, 85},
	{5, 70},
	{10, 50},
}

// DistanceMiles returns the great-circle distance between two points.
func DistanceMiles(a, b model.GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceScore scores the distance between a student and a job when no city
// preference is known.
func DistanceScore(student, job *model.GeoPoint) float64 {
	if student == nil || job == nil {
		return neutralScore
	}
	d := DistanceMiles(*student, *job)
	for _, band := range distanceBands {
		if d < band.below {
			return band.score
		}
	}
	return 0
}
