package params

import (
	"net/url"
	"strings"
)

type Qualification string

const (
	QtsOnly         Qualification = "QtsOnly"
	PgdePgceWithQts Qualification = "PgdePgceWithQts"
	Other           Qualification = "Other"
)

const (
	KeyQualifications = "qualifications"
	KeyFullTime       = "fulltime"
	KeyPartTime       = "parttime"
	KeyHasVacancies   = "hasvacancies"
	KeySenCourses     = "senCourses"
)

// DefaultQualifications is the canonical order used when none are requested.
var DefaultQualifications = []Qualification{QtsOnly, PgdePgceWithQts, Other}

// NoiseKeys are form-framework control fields that never reach the filters.
var NoiseKeys = []string{"utf8", "authenticity_token", "_method"}

var defaultedKeys = []string{KeyQualifications, KeyFullTime, KeyPartTime, KeyHasVacancies, KeySenCourses}

// Normalized is the canonical parameter set. Extra keeps every key without a
// default exactly as it was submitted.
type Normalized struct {
	Qualifications []Qualification
	FullTime       bool
	PartTime       bool
	HasVacancies   bool
	SenCourses     bool
	Extra          Raw
}

func Defaults() Normalized {
	return Normalized{
		Qualifications: append([]Qualification{}, DefaultQualifications...),
		FullTime:       false,
		PartTime:       false,
		HasVacancies:   true,
		SenCourses:     false,
		Extra:          Raw{},
	}
}

// Normalize merges the defaults with raw, raw winning per key.
func Normalize(raw Raw) Normalized {
	n := Defaults()
	for key, value := range StripNoise(raw) {
		switch key {
		case KeyQualifications:
			n.Qualifications = parseQualifications(value)
		case KeyFullTime:
			n.FullTime = coerceBool(value)
		case KeyPartTime:
			n.PartTime = coerceBool(value)
		case KeyHasVacancies:
			n.HasVacancies = coerceBool(value)
		case KeySenCourses:
			n.SenCourses = coerceBool(value)
		default:
			n.Extra[key] = value
		}
	}
	return n
}

// StripNoise returns a copy of raw without NoiseKeys.
func StripNoise(raw Raw) Raw {
	return raw.Except(NoiseKeys...)
}

func parseQualifications(v Value) []Qualification {
	items := v.Items()
	out := make([]Qualification, 0, len(items))
	for _, item := range items {
		for _, part := range splitCommas(item) {
			out = append(out, Qualification(part))
		}
	}
	return out
}

func coerceBool(v Value) bool {
	return strings.EqualFold(strings.TrimSpace(v.First()), "true")
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (n Normalized) qualificationsString() string {
	parts := make([]string, len(n.Qualifications))
	for i, q := range n.Qualifications {
		parts[i] = string(q)
	}
	return strings.Join(parts, ",")
}

// Raw re-encodes the defaulted keys and merges Extra back in.
func (n Normalized) Raw() Raw {
	out := n.Extra.Clone()
	out[KeyQualifications] = String(n.qualificationsString())
	out[KeyFullTime] = String(formatBool(n.FullTime))
	out[KeyPartTime] = String(formatBool(n.PartTime))
	out[KeyHasVacancies] = String(formatBool(n.HasVacancies))
	out[KeySenCourses] = String(formatBool(n.SenCourses))
	return out
}

func (n Normalized) Values() url.Values {
	return n.Raw().Values()
}

// FilterPath appends the normalized set to base as a query string, defaulted
// keys first, then extras by key, leaving commas unescaped.
func (n Normalized) FilterPath(base string) string {
	raw := n.Raw()
	pairs := make([]string, 0, len(raw))
	for _, key := range defaultedKeys {
		pairs = append(pairs, encodePair(key, raw[key].Single))
	}
	for _, key := range n.Extra.sortedKeys() {
		v := n.Extra[key]
		if v.IsList {
			for _, item := range v.List {
				pairs = append(pairs, encodePair(key+"[]", item))
			}
			continue
		}
		pairs = append(pairs, encodePair(key, v.Single))
	}
	if len(pairs) == 0 {
		return base
	}
	return base + "?" + strings.Join(pairs, "&")
}

func encodePair(key, value string) string {
	return strings.ReplaceAll(url.QueryEscape(key)+"="+url.QueryEscape(value), "%2C", ",")
}

// Has reports whether q is among the requested qualifications.
func (n Normalized) Has(q Qualification) bool {
	for _, have := range n.Qualifications {
		if have == q {
			return true
		}
	}
	return false
}
