package params

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	SortProviderAsc  = "0"
	SortProviderDesc = "1"
	SortDistance     = "2"

	// previousPrefix marks wizard keys remembering the filter state before the current step.
	previousPrefix = "prev_"
)

var qualificationCodes = map[Qualification][]string{
	QtsOnly:         {"qts"},
	PgdePgceWithQts: {"pgce_with_qts", "pgde_with_qts"},
	Other:           {"pgce", "pgde"},
}

// CourseFilters translates a normalized set into course API query parameters.
func CourseFilters(n Normalized, pred Predicates, perPage int) url.Values {
	q := url.Values{}

	var codes []string
	for _, qual := range n.Qualifications {
		codes = append(codes, qualificationCodes[qual]...)
	}
	if len(codes) > 0 {
		q.Set("filter[qualification]", strings.Join(codes, ","))
	}

	switch {
	case n.FullTime && !n.PartTime:
		q.Set("filter[study_type]", "full_time")
	case n.PartTime && !n.FullTime:
		q.Set("filter[study_type]", "part_time")
	default:
		q.Set("filter[study_type]", "full_time,part_time")
	}

	if n.HasVacancies {
		q.Set("filter[has_vacancies]", "true")
	}
	if pred.SendCourses {
		q.Set("filter[send_courses]", "true")
	}
	if pred.WithSalaries {
		q.Set("filter[funding]", "salary")
	}
	if subjects := n.Subjects(); len(subjects) > 0 {
		q.Set("filter[subjects]", strings.Join(subjects, ","))
	}

	switch pred.LocationFilter {
	case LocationRadius:
		if lat, lng, ok := n.Coordinate(); ok {
			q.Set("filter[latitude]", strconv.FormatFloat(lat, 'f', -1, 64))
			q.Set("filter[longitude]", strconv.FormatFloat(lng, 'f', -1, 64))
			q.Set("filter[radius]", strconv.Itoa(n.Radius()))
		}
	case LocationProvider:
		if provider := strings.TrimSpace(n.ProviderQuery()); provider != "" {
			q.Set("filter[provider.provider_name]", provider)
		}
	}

	q.Set("sort", sortParam(n.SortBy(), pred.LocationFilter))
	q.Set("page[page]", strconv.Itoa(n.Page()))
	if perPage > 0 {
		q.Set("page[per_page]", strconv.Itoa(perPage))
	}
	return q
}

func sortParam(sortBy string, mode LocationMode) string {
	switch {
	case sortBy == SortDistance && mode == LocationRadius:
		return "distance"
	case sortBy == SortProviderDesc:
		return "-provider.provider_name,name"
	default:
		return "provider.provider_name,name"
	}
}

// FilterParams is the noise-free parameter set carried between filter pages.
func FilterParams(raw Raw) Raw {
	return StripNoise(raw)
}

// WithoutPrevious drops the wizard's `prev_*` keys from FilterParams.
func WithoutPrevious(raw Raw) Raw {
	out := FilterParams(raw)
	for key := range out {
		if strings.HasPrefix(key, previousPrefix) {
			delete(out, key)
		}
	}
	return out
}
