package storage

import (
	"math"
	"time"

	"github.com/poiesic/petmatch/core"
)

// Tiered distance estimates in kilometres.
const (
	DistanceOtherProvince = 50.0
	DistanceOtherCanton   = 15.0
	DistanceOtherDistrict = 3.0
	DistanceSameDistrict  = 0.5
)

// LocationDistance estimates the distance between two locations from how much
// of their administrative hierarchy they share. It is a coarse proxy, not a
// geodesic distance.
func LocationDistance(a, b *core.Location) float64 {
	switch {
	case a.Province != b.Province:
		return DistanceOtherProvince
	case a.Canton != b.Canton:
		return DistanceOtherCanton
	case a.District != b.District:
		return DistanceOtherDistrict
	default:
		return DistanceSameDistrict
	}
}

// DaysSince returns the number of whole days between timestamp and now.
// Unparsable timestamps yield 0. Future timestamps also yield 0.
func DaysSince(timestamp string, now time.Time) int {
	t, err := core.ParseISOTime(timestamp)
	if err != nil {
		return 0
	}
	days := math.Floor(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// CalculateDaysSince is DaysSince against the current wall clock.
func CalculateDaysSince(timestamp string) int {
	return DaysSince(timestamp, time.Now())
}
