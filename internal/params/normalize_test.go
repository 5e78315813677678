package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyYieldsDefaults(t *testing.T) {
	n := Normalize(Raw{})

	assert.Equal(t, []Qualification{QtsOnly, PgdePgceWithQts, Other}, n.Qualifications)
	assert.False(t, n.FullTime)
	assert.False(t, n.PartTime)
	assert.True(t, n.HasVacancies)
	assert.False(t, n.SenCourses)
	assert.Empty(t, n.Extra)
}

func TestNormalize_ExplicitValuesOverrideOnlyTheirKey(t *testing.T) {
	tests := []struct {
		name  string
		raw   Raw
		check func(t *testing.T, n Normalized)
	}{
		{
			name: "qualifications",
			raw:  Raw{"qualifications": String("Other")},
			check: func(t *testing.T, n Normalized) {
				assert.Equal(t, []Qualification{Other}, n.Qualifications)
				assert.True(t, n.HasVacancies)
			},
		},
		{
			name: "fulltime",
			raw:  Raw{"fulltime": String("True")},
			check: func(t *testing.T, n Normalized) {
				assert.True(t, n.FullTime)
				assert.False(t, n.PartTime)
				assert.Equal(t, DefaultQualifications, n.Qualifications)
			},
		},
		{
			name: "parttime lower case",
			raw:  Raw{"parttime": String("true")},
			check: func(t *testing.T, n Normalized) {
				assert.True(t, n.PartTime)
			},
		},
		{
			name: "hasvacancies false",
			raw:  Raw{"hasvacancies": String("False")},
			check: func(t *testing.T, n Normalized) {
				assert.False(t, n.HasVacancies)
			},
		},
		{
			name: "senCourses anything but true",
			raw:  Raw{"senCourses": String("yes")},
			check: func(t *testing.T, n Normalized) {
				assert.False(t, n.SenCourses)
			},
		},
		{
			name: "qualifications as list",
			raw:  Raw{"qualifications": List("Other", "QtsOnly")},
			check: func(t *testing.T, n Normalized) {
				assert.Equal(t, []Qualification{Other, QtsOnly}, n.Qualifications)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize(tt.raw))
		})
	}
}

func TestNormalize_PassesThroughUnknownKeys(t *testing.T) {
	raw := Raw{
		"lat":        String("52.3812321"),
		"lng":        String("-3.9440235"),
		"subjects":   List("00", "01"),
		"page[page]": String("2"),
	}

	n := Normalize(raw)

	assert.Equal(t, raw, n.Extra)
}

func TestNormalize_DropsNoiseKeys(t *testing.T) {
	n := Normalize(FromValues(url.Values{
		"utf8":               {"✓"},
		"authenticity_token": {"booyah"},
	}))

	assert.Empty(t, n.Extra)
	assert.NotContains(t, n.Values(), "utf8")
	assert.NotContains(t, n.Values(), "authenticity_token")
}

func TestNormalize_PreservesQualificationOrder(t *testing.T) {
	n := Normalize(Raw{"qualifications": String("Other,QtsOnly,PgdePgceWithQts")})

	assert.Equal(t, []Qualification{Other, QtsOnly, PgdePgceWithQts}, n.Qualifications)
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(FromValues(url.Values{
		"qualifications": {"PgdePgceWithQts,QtsOnly"},
		"fulltime":       {"TRUE"},
		"subjects[]":     {"00", "C1"},
		"lq":             {"Manchester"},
	}))

	second := Normalize(FromValues(first.Values()))

	require.Equal(t, first, second)
}

func TestNormalize_IdempotentForCommaListItems(t *testing.T) {
	first := Normalize(Raw{"qualifications": List("QtsOnly,Other", "PgdePgceWithQts", "")})
	assert.Equal(t, []Qualification{QtsOnly, Other, PgdePgceWithQts}, first.Qualifications)

	second := Normalize(FromValues(first.Values()))
	require.Equal(t, first, second)
}

func TestFromValues_ListForms(t *testing.T) {
	raw := FromValues(url.Values{
		"subjects[]": {"00"},
		"c":          {"Wales", "Scotland"},
		"l":          {"1"},
	})

	assert.Equal(t, List("00"), raw["subjects"])
	assert.Equal(t, List("Wales", "Scotland"), raw["c"])
	assert.Equal(t, String("1"), raw["l"])
}

func TestFilterPath_UnescapedCommas(t *testing.T) {
	got := Defaults().FilterPath("/test")

	assert.Equal(t, "/test?qualifications=QtsOnly,PgdePgceWithQts,Other&fulltime=False&parttime=False&hasvacancies=True&senCourses=False", got)
}

func TestFilterPath_ExtrasSortedAfterDefaults(t *testing.T) {
	n := Normalize(Raw{"subjects": String("1,2"), "loc": String("Leeds, UK")})

	got := n.FilterPath("/results")

	assert.Equal(t, "/results?qualifications=QtsOnly,PgdePgceWithQts,Other&fulltime=False&parttime=False&hasvacancies=True&senCourses=False&loc=Leeds,+UK&subjects=1,2", got)
}
