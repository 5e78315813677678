package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/find-teacher-training/search/internal/params"
)

var (
	ErrNotFound    = errors.New("geocode not found")
	ErrUnavailable = errors.New("geocoder unavailable")
)

type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
	Confidence  float64
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// BuildGeocodeQuery joins the non-blank parts with ", ".
func BuildGeocodeQuery(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// ShouldGeocode is false when the parameters already carry a coordinate pair
// for the submitted location text.
func ShouldGeocode(raw params.Raw, force bool) bool {
	if force {
		return true
	}
	if !raw.Present(params.KeyLatitude) || !raw.Present(params.KeyLongitude) {
		return true
	}
	return strings.TrimSpace(raw.Get(params.KeyLocationQuery)) != strings.TrimSpace(raw.Get(params.KeyLocation))
}
