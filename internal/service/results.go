package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/find-teacher-training/search/internal/geo"
	"github.com/find-teacher-training/search/internal/models"
	"github.com/find-teacher-training/search/internal/params"
	"github.com/find-teacher-training/search/internal/teachertraining"
)

type CourseSource interface {
	Courses(ctx context.Context, cycle string, filters url.Values) (teachertraining.CoursePage, error)
}

type SubjectSource interface {
	SubjectCount(ctx context.Context, cycle string) (int, error)
}

type ResultsService struct {
	Courses  CourseSource
	Subjects SubjectSource
	Cycle    string
	PerPage  int
	Logger   zerolog.Logger
}

type SiteView struct {
	Code         string `json:"code"`
	LocationName string `json:"location_name"`
	Address      string `json:"address"`
}

type CourseResult struct {
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	ProviderCode     string    `json:"provider_code,omitempty"`
	ProviderName     string    `json:"provider_name,omitempty"`
	Qualification    string    `json:"qualification,omitempty"`
	StudyMode        string    `json:"study_mode,omitempty"`
	FundingType      string    `json:"funding_type,omitempty"`
	HasVacancies     bool      `json:"has_vacancies"`
	HasFees          bool      `json:"has_fees"`
	Distance         *float64  `json:"distance,omitempty"`
	NearestSite      *SiteView `json:"nearest_site,omitempty"`
	PlacementSummary string    `json:"placement_summary,omitempty"`
}

// ResultsPage is everything the results listing renders for one request.
type ResultsPage struct {
	Params           url.Values             `json:"params"`
	Predicates       params.Predicates      `json:"predicates"`
	FilterPath       string                 `json:"filter_path"`
	Location         string                 `json:"location"`
	Radius           int                    `json:"radius"`
	ProviderQuery    string                 `json:"provider_query,omitempty"`
	Page             int                    `json:"page"`
	SubjectsSelected int                    `json:"subjects_selected"`
	ExtraSubjects    int                    `json:"extra_subjects"`
	TotalCourses     int                    `json:"total_courses"`
	Courses          []CourseResult         `json:"courses"`
	Qualifications   []params.Qualification `json:"qualifications"`
}

func (s *ResultsService) Build(ctx context.Context, raw params.Raw) (ResultsPage, error) {
	n := params.Normalize(raw)
	pred := params.Derive(n)

	var (
		coursePage  teachertraining.CoursePage
		allSubjects int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.Courses.Courses(gctx, s.Cycle, params.CourseFilters(n, pred, s.PerPage))
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		coursePage = page
		return nil
	})
	g.Go(func() error {
		count, err := s.Subjects.SubjectCount(gctx, s.Cycle)
		if err != nil {
			return fmt.Errorf("count subjects: %w", err)
		}
		allSubjects = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return ResultsPage{}, err
	}

	selected := n.SubjectsSelected(allSubjects)
	page := ResultsPage{
		Params:           n.Values(),
		Predicates:       pred,
		FilterPath:       n.FilterPath(PathResults),
		Location:         n.Location(),
		Radius:           n.Radius(),
		ProviderQuery:    n.ProviderQuery(),
		Page:             n.Page(),
		SubjectsSelected: selected,
		ExtraSubjects:    params.ExtraSubjects(selected),
		TotalCourses:     coursePage.Total,
		Courses:          make([]CourseResult, 0, len(coursePage.Courses)),
		Qualifications:   n.Qualifications,
	}

	lat, lng, located := n.Coordinate()
	for _, course := range coursePage.Courses {
		result := courseResult(course)
		if located {
			s.annotateDistance(&result, course, geo.Coordinate{Lat: lat, Lng: lng})
		}
		page.Courses = append(page.Courses, result)
	}

	s.Logger.Debug().
		Int("courses", len(page.Courses)).
		Int("total", page.TotalCourses).
		Str("location_filter", pred.LocationFilter.String()).
		Msg("results built")
	return page, nil
}

func (s *ResultsService) annotateDistance(result *CourseResult, course *models.Course, from geo.Coordinate) {
	site, miles, err := geo.NearestSite(course, from)
	if errors.Is(err, geo.ErrNoDistance) {
		return
	}
	if err != nil {
		s.Logger.Warn().Err(err).Str("course", course.CourseCode).Msg("distance failed")
		return
	}
	result.Distance = &miles
	result.NearestSite = &SiteView{Code: site.Code, LocationName: site.LocationName, Address: site.Address()}
	result.PlacementSummary = geo.PlacementSchoolsSummary(miles)
}

func courseResult(c *models.Course) CourseResult {
	out := CourseResult{
		Code:          c.CourseCode,
		Name:          c.Name,
		Qualification: c.Qualification,
		StudyMode:     c.StudyMode,
		FundingType:   c.FundingType,
		HasVacancies:  c.HasVacancies,
		HasFees:       c.HasFees(),
	}
	if c.Provider != nil {
		out.ProviderCode = c.Provider.ProviderCode
		out.ProviderName = c.Provider.ProviderName
	}
	return out
}
