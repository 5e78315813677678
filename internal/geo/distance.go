package geo

import (
	"errors"
	"math"

	"github.com/jftuga/geodist"

	"github.com/find-teacher-training/search/internal/models"
)

var ErrNoDistance = errors.New("no active site with coordinates")

const (
	minDisplayedMiles = 0.1

	nearYouMiles     = 11
	mightBeNearMiles = 21

	PlacementNearYou     = "Placement schools are near you"
	PlacementMightBeNear = "Placement schools might be near you"
	PlacementCommuting   = "Placement schools might be in commuting distance"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func HaversineMiles(a, b Coordinate) float64 {
	mi, _ := geodist.HaversineDistance(
		geodist.Coord{Lat: a.Lat, Lon: a.Lng},
		geodist.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return mi
}

// DistanceMiles is the great-circle distance rounded to one decimal. A non-zero
// distance never displays as 0.0.
func DistanceMiles(a, b Coordinate) float64 {
	return roundTenth(HaversineMiles(a, b))
}

func roundTenth(mi float64) float64 {
	rounded := math.Round(mi*10) / 10
	if mi > 0 && rounded < minDisplayedMiles {
		return minDisplayedMiles
	}
	return rounded
}

// displayMiles keeps one decimal below a mile and whole miles above it.
func displayMiles(mi float64) float64 {
	if mi < 1 {
		return roundTenth(mi)
	}
	return math.Round(mi)
}

// NearestSite picks the closest active site with coordinates and its display distance.
func NearestSite(course *models.Course, from Coordinate) (*models.Site, float64, error) {
	var (
		nearest *models.Site
		best    = math.Inf(1)
	)
	if course == nil {
		return nil, 0, ErrNoDistance
	}
	for _, site := range course.ActiveSites() {
		if !site.HasCoordinates() {
			continue
		}
		d := HaversineMiles(from, Coordinate{Lat: *site.Latitude, Lng: *site.Longitude})
		if d < best {
			best = d
			nearest = site
		}
	}
	if nearest == nil {
		return nil, 0, ErrNoDistance
	}
	return nearest, displayMiles(best), nil
}

func SiteDistance(course *models.Course, from Coordinate) (float64, error) {
	_, d, err := NearestSite(course, from)
	return d, err
}

func PlacementSchoolsSummary(miles float64) string {
	switch {
	case miles < nearYouMiles:
		return PlacementNearYou
	case miles < mightBeNearMiles:
		return PlacementMightBeNear
	default:
		return PlacementCommuting
	}
}
