package teachertraining

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"

	"github.com/google/jsonapi"

	"github.com/find-teacher-training/search/internal/models"
)

const courseIncludes = "provider,site_statuses.site"

type CoursePage struct {
	Courses []*models.Course
	Total   int
}

type pageMeta struct {
	Meta struct {
		Count *int `json:"count"`
	} `json:"meta"`
}

// Courses lists one page of courses for cycle. filters carries the already
// translated filter[...], sort and page[...] parameters.
func (c *Client) Courses(ctx context.Context, cycle string, filters url.Values) (CoursePage, error) {
	q := url.Values{}
	for k, v := range filters {
		q[k] = append([]string{}, v...)
	}
	q.Set("include", courseIncludes)

	var page CoursePage
	err := c.fetch(ctx, "courses", c.cycleURL(cycle, "courses", q), func(body []byte) error {
		items, err := unmarshalMany(body, reflect.TypeOf(new(models.Course)))
		if err != nil {
			return err
		}
		courses := make([]*models.Course, 0, len(items))
		for _, item := range items {
			course, ok := item.(*models.Course)
			if !ok {
				return fmt.Errorf("unexpected course type %T", item)
			}
			courses = append(courses, course)
		}

		var meta pageMeta
		if err := json.Unmarshal(body, &meta); err != nil {
			return err
		}
		page = CoursePage{Courses: courses, Total: len(courses)}
		if meta.Meta.Count != nil {
			page.Total = *meta.Meta.Count
		}
		return nil
	})
	return page, err
}

func (c *Client) SubjectAreas(ctx context.Context, cycle string) ([]*models.SubjectArea, error) {
	q := url.Values{"include": {"subjects"}}

	var areas []*models.SubjectArea
	err := c.fetch(ctx, "subject_areas", c.cycleURL(cycle, "subject_areas", q), func(body []byte) error {
		items, err := unmarshalMany(body, reflect.TypeOf(new(models.SubjectArea)))
		if err != nil {
			return err
		}
		areas = make([]*models.SubjectArea, 0, len(items))
		for _, item := range items {
			area, ok := item.(*models.SubjectArea)
			if !ok {
				return fmt.Errorf("unexpected subject area type %T", item)
			}
			areas = append(areas, area)
		}
		return nil
	})
	return areas, err
}

// SubjectCount is the size of the full subject catalog across all areas.
func (c *Client) SubjectCount(ctx context.Context, cycle string) (int, error) {
	areas, err := c.SubjectAreas(ctx, cycle)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, area := range areas {
		n += len(area.Subjects)
	}
	return n, nil
}

func (c *Client) ProviderSuggestions(ctx context.Context, cycle, query string) ([]models.ProviderSuggestion, error) {
	q := url.Values{
		"query":                        {query},
		"fields[provider_suggestions]": {"code,name"},
	}

	var out []models.ProviderSuggestion
	err := c.fetch(ctx, "provider_suggestions", c.cycleURL(cycle, "provider_suggestions", q), func(body []byte) error {
		items, err := unmarshalMany(body, reflect.TypeOf(new(models.ProviderSuggestion)))
		if err != nil {
			return err
		}
		out = make([]models.ProviderSuggestion, 0, len(items))
		for _, item := range items {
			s, ok := item.(*models.ProviderSuggestion)
			if !ok {
				return fmt.Errorf("unexpected suggestion type %T", item)
			}
			out = append(out, *s)
		}
		return nil
	})
	return out, err
}

func unmarshalMany(body []byte, t reflect.Type) ([]interface{}, error) {
	return jsonapi.UnmarshalManyPayload(bytes.NewReader(body), t)
}
