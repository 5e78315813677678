package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/find-teacher-training/search/internal/geocode"
	"github.com/find-teacher-training/search/internal/metrics"
	"github.com/find-teacher-training/search/internal/params"
)

var locationKeys = []string{
	params.KeyLatitude,
	params.KeyLongitude,
	params.KeyLocation,
	params.KeyLocationQuery,
	params.KeyRadius,
}

// LocationFlow handles the location step of the filter wizard: a searched
// place, the whole of England, or a training provider.
type LocationFlow struct {
	Geocoder      geocode.Geocoder
	DefaultRadius int
	Logger        zerolog.Logger
}

func (f *LocationFlow) Resolve(ctx context.Context, raw params.Raw, startWizard bool) (Decision, error) {
	switch raw.Get(params.KeyLocationMode) {
	case "1":
		return f.byPlace(ctx, raw, startWizard)
	case "2":
		metrics.FlowDecisions.WithLabelValues("location", "england").Inc()
		return Decision{
			State: StateRedirectToResults,
			Redirect: &Redirect{
				Path:   PathResults,
				Params: params.WithoutPrevious(raw).Except(append(locationKeys, params.KeyQuery, params.KeySortBy)...),
			},
		}, nil
	case "3":
		if strings.TrimSpace(raw.Get(params.KeyQuery)) == "" {
			back := params.FilterParams(raw).Except(params.KeyQuery)
			return f.reject(back, startWizard, KindBlankInput, FieldProvider, MessageBlankProvider), nil
		}
		metrics.FlowDecisions.WithLabelValues("location", "provider").Inc()
		return Decision{
			State: StateRedirect,
			Redirect: &Redirect{
				Path:   PathProviderFilter,
				Params: params.FilterParams(raw).Except(locationKeys...),
			},
		}, nil
	default:
		return f.reject(params.FilterParams(raw), startWizard, KindNoOption, FieldLocation, MessageNoOption), nil
	}
}

func (f *LocationFlow) byPlace(ctx context.Context, raw params.Raw, startWizard bool) (Decision, error) {
	lq := strings.TrimSpace(raw.Get(params.KeyLocationQuery))
	if lq == "" {
		return f.reject(params.FilterParams(raw), startWizard, KindBlankInput, FieldLocation, MessageBlankLocation), nil
	}

	lat, lng, loc := raw.Get(params.KeyLatitude), raw.Get(params.KeyLongitude), raw.Get(params.KeyLocation)
	if geocode.ShouldGeocode(raw, false) {
		res, err := f.Geocoder.Geocode(ctx, geocode.BuildGeocodeQuery(lq))
		if errors.Is(err, geocode.ErrNotFound) {
			f.Logger.Info().Str("location", lq).Msg("location not found")
			return f.reject(params.FilterParams(raw), startWizard, KindUnknownPlace, FieldLocation, MessageUnknownLocation), nil
		}
		if err != nil {
			metrics.FlowDecisions.WithLabelValues("location", "error").Inc()
			return Decision{}, fmt.Errorf("geocode %q: %w", lq, err)
		}
		lat = strconv.FormatFloat(res.Lat, 'f', -1, 64)
		lng = strconv.FormatFloat(res.Lng, 'f', -1, 64)
		loc = lq
	}

	rad := raw.Get(params.KeyRadius)
	if strings.TrimSpace(rad) == "" {
		rad = strconv.Itoa(f.defaultRadius())
	}

	metrics.FlowDecisions.WithLabelValues("location", "radius").Inc()
	return Decision{
		State: StateRedirectToResults,
		Redirect: &Redirect{
			Path: PathResults,
			Params: params.WithoutPrevious(raw).Except(params.KeyQuery).Merge(params.Raw{
				params.KeyLatitude:      params.String(lat),
				params.KeyLongitude:     params.String(lng),
				params.KeyLocation:      params.String(loc),
				params.KeyLocationQuery: params.String(lq),
				params.KeyRadius:        params.String(rad),
				params.KeySortBy:        params.String(params.SortDistance),
			}),
		},
	}, nil
}

func (f *LocationFlow) defaultRadius() int {
	if f.DefaultRadius > 0 {
		return f.DefaultRadius
	}
	return params.DefaultRadius
}

func (f *LocationFlow) reject(back params.Raw, startWizard bool, kind Kind, field, message string) Decision {
	metrics.FlowDecisions.WithLabelValues("location", string(kind)).Inc()
	return Decision{
		State:    StateRedirectBack,
		Kind:     kind,
		Error:    &FieldError{Field: field, Message: message},
		Redirect: &Redirect{Path: backPath(startWizard), Params: back},
	}
}
