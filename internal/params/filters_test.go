package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseFilters_Qualifications(t *testing.T) {
	tests := []struct {
		qualifications string
		want           string
	}{
		{"QtsOnly", "qts"},
		{"PgdePgceWithQts", "pgce_with_qts,pgde_with_qts"},
		{"Other", "pgce,pgde"},
		{"QtsOnly,Other", "qts,pgce,pgde"},
	}
	for _, tt := range tests {
		n := Normalize(Raw{"qualifications": String(tt.qualifications)})
		q := CourseFilters(n, Derive(n), 10)
		assert.Equal(t, tt.want, q.Get("filter[qualification]"), tt.qualifications)
		assert.Equal(t, "full_time,part_time", q.Get("filter[study_type]"))
	}
}

func TestCourseFilters_StudyTypeAndFlags(t *testing.T) {
	n := Normalize(Raw{"fulltime": String("True"), "senCourses": String("True"), "funding": String("8"), "subjects": String("00,C1")})
	q := CourseFilters(n, Derive(n), 20)

	assert.Equal(t, "full_time", q.Get("filter[study_type]"))
	assert.Equal(t, "true", q.Get("filter[has_vacancies]"))
	assert.Equal(t, "true", q.Get("filter[send_courses]"))
	assert.Equal(t, "salary", q.Get("filter[funding]"))
	assert.Equal(t, "00,C1", q.Get("filter[subjects]"))
	assert.Equal(t, "1", q.Get("page[page]"))
	assert.Equal(t, "20", q.Get("page[per_page]"))

	n = Normalize(Raw{"parttime": String("True"), "hasvacancies": String("False")})
	q = CourseFilters(n, Derive(n), 0)
	assert.Equal(t, "part_time", q.Get("filter[study_type]"))
	assert.False(t, q.Has("filter[has_vacancies]"))
	assert.False(t, q.Has("page[per_page]"))
}

func TestCourseFilters_Location(t *testing.T) {
	n := Normalize(Raw{"l": String("1"), "lat": String("51.4975"), "lng": String("0.1357"), "rad": String("20"), "sortby": String("2")})
	q := CourseFilters(n, Derive(n), 10)

	assert.Equal(t, "51.4975", q.Get("filter[latitude]"))
	assert.Equal(t, "0.1357", q.Get("filter[longitude]"))
	assert.Equal(t, "20", q.Get("filter[radius]"))
	assert.Equal(t, "distance", q.Get("sort"))

	n = Normalize(Raw{"l": String("3"), "query": String("ACME SCITT"), "sortby": String("2")})
	q = CourseFilters(n, Derive(n), 10)
	assert.Equal(t, "ACME SCITT", q.Get("filter[provider.provider_name]"))
	assert.Equal(t, "provider.provider_name,name", q.Get("sort"))

	n = Normalize(Raw{"sortby": String("1")})
	assert.Equal(t, "-provider.provider_name,name", CourseFilters(n, Derive(n), 10).Get("sort"))
}

func TestWithoutPrevious(t *testing.T) {
	raw := Raw{
		"query":      String("acme"),
		"prev_query": String("ac"),
		"prev_l":     String("1"),
		"utf8":       String("✓"),
		"l":          String("3"),
	}

	assert.Equal(t, Raw{"query": String("acme"), "l": String("3"), "prev_query": String("ac"), "prev_l": String("1")}, FilterParams(raw))
	assert.Equal(t, Raw{"query": String("acme"), "l": String("3")}, WithoutPrevious(raw))
}
