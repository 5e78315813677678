package params

import (
	"strconv"
	"strings"
)

// LocationMode is the location-filter option chosen with the `l` parameter.
type LocationMode int

const (
	LocationNone LocationMode = iota
	LocationRadius
	LocationEngland
	LocationProvider
)

func (m LocationMode) String() string {
	switch m {
	case LocationRadius:
		return "radius"
	case LocationEngland:
		return "england"
	case LocationProvider:
		return "provider"
	default:
		return "none"
	}
}

func (m LocationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

const (
	KeyLocationMode  = "l"
	KeyCountry       = "c"
	KeyLatitude      = "lat"
	KeyLongitude     = "lng"
	KeyRadius        = "rad"
	KeyLocation      = "loc"
	KeyLocationQuery = "lq"
	KeySubjects      = "subjects"
	KeyQuery         = "query"
	KeyFunding       = "funding"
	KeyPage          = "page"
	KeySortBy        = "sortby"

	// SubjectsDisplayed is how many subject names the filter summary lists
	// before collapsing the rest into "and N more".
	SubjectsDisplayed = 4
	DefaultRadius     = 50
	DefaultLocation   = "Across England"
	SalaryFunding     = "8"
)

// DevolvedNations are the UK nations outside England with their own search journey.
var DevolvedNations = []string{"Northern Ireland", "Scotland", "Wales"}

// Predicates are view-ready booleans derived from a Normalized set.
type Predicates struct {
	QtsOnly             bool         `json:"qts_only"`
	PgceOrPgdeWithQts   bool         `json:"pgce_or_pgde_with_qts"`
	OtherQualifications bool         `json:"other_qualifications"`
	AllQualifications   bool         `json:"all_qualifications"`
	SendCourses         bool         `json:"send_courses"`
	LocationFilter      LocationMode `json:"location_filter"`
	DevolvedNation      bool         `json:"devolved_nation"`
	ShowMap             bool         `json:"show_map"`
	WithSalaries        bool         `json:"with_salaries"`
}

func Derive(n Normalized) Predicates {
	return Predicates{
		QtsOnly:             n.Has(QtsOnly),
		PgceOrPgdeWithQts:   n.Has(PgdePgceWithQts),
		OtherQualifications: n.Has(Other),
		AllQualifications:   allQualifications(n.Qualifications),
		SendCourses:         n.SenCourses,
		LocationFilter:      locationMode(n.Extra.Get(KeyLocationMode)),
		DevolvedNation:      isDevolvedNation(n.Extra.Get(KeyCountry)),
		ShowMap:             n.Extra.Present(KeyLatitude) && n.Extra.Present(KeyLongitude) && n.Extra.Present(KeyRadius),
		WithSalaries:        n.Extra.Get(KeyFunding) == SalaryFunding,
	}
}

func allQualifications(qs []Qualification) bool {
	set := map[Qualification]struct{}{}
	for _, q := range qs {
		set[q] = struct{}{}
	}
	if len(set) != len(DefaultQualifications) {
		return false
	}
	for _, q := range DefaultQualifications {
		if _, ok := set[q]; !ok {
			return false
		}
	}
	return true
}

func locationMode(v string) LocationMode {
	switch v {
	case "1":
		return LocationRadius
	case "2":
		return LocationEngland
	case "3":
		return LocationProvider
	default:
		return LocationNone
	}
}

func isDevolvedNation(c string) bool {
	for _, nation := range DevolvedNations {
		if c == nation {
			return true
		}
	}
	return false
}

// Subjects returns the requested subject codes, nil when none were given.
func (n Normalized) Subjects() []string {
	v, ok := n.Extra[KeySubjects]
	if !ok {
		return nil
	}
	return v.Items()
}

// SubjectsSelected counts the requested subjects; with none requested every
// subject in the catalog counts as selected.
func (n Normalized) SubjectsSelected(allSubjects int) int {
	if !n.Extra.Has(KeySubjects) {
		return allSubjects
	}
	return len(n.Subjects())
}

func ExtraSubjects(selected int) int {
	if selected <= SubjectsDisplayed {
		return 0
	}
	return selected - SubjectsDisplayed
}

func (n Normalized) Location() string {
	if loc := n.Extra.Get(KeyLocation); loc != "" {
		return loc
	}
	return DefaultLocation
}

func (n Normalized) Radius() int {
	if r, err := strconv.Atoi(strings.TrimSpace(n.Extra.Get(KeyRadius))); err == nil && r > 0 {
		return r
	}
	return DefaultRadius
}

func (n Normalized) ProviderQuery() string {
	return n.Extra.Get(KeyQuery)
}

func (n Normalized) Page() int {
	for _, key := range []string{KeyPage, "page[page]"} {
		if p, err := strconv.Atoi(strings.TrimSpace(n.Extra.Get(key))); err == nil && p > 0 {
			return p
		}
	}
	return 1
}

func (n Normalized) SortBy() string {
	return n.Extra.Get(KeySortBy)
}

// Coordinate returns the searcher position when lat and lng both parse.
func (n Normalized) Coordinate() (lat, lng float64, ok bool) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(n.Extra.Get(KeyLatitude)), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(n.Extra.Get(KeyLongitude)), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
