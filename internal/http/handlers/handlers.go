package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/find-teacher-training/search/internal/geocode"
	"github.com/find-teacher-training/search/internal/models"
	"github.com/find-teacher-training/search/internal/params"
	"github.com/find-teacher-training/search/internal/service"
	"github.com/find-teacher-training/search/internal/teachertraining"
)

type ResultsBuilder interface {
	Build(ctx context.Context, raw params.Raw) (service.ResultsPage, error)
}

// Resolver is a filter-wizard step that ends in a redirect or a page to render.
type Resolver interface {
	Resolve(ctx context.Context, raw params.Raw, startWizard bool) (service.Decision, error)
}

type Pinger interface {
	Ping(ctx context.Context, cycle string) error
}

type Handler struct {
	ResultsView ResultsBuilder
	Providers   Resolver
	Locations   Resolver
	Suggestions service.SuggestionSource
	Upstream    Pinger
	Validator   *validator.Validate
	Cycle       string
	Logger      zerolog.Logger
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Upstream.Ping(ctx, h.Cycle); err != nil {
		writeError(c, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Course API unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cycle": h.Cycle})
}

// @Summary Course results
// @Description Normalized filters, derived predicates and one page of matching courses
// @Tags results
// @Produce json
// @Param qualifications query string false "QtsOnly,PgdePgceWithQts,Other"
// @Param fulltime query string false "True or False"
// @Param parttime query string false "True or False"
// @Param hasvacancies query string false "True or False"
// @Param senCourses query string false "True or False"
// @Param l query string false "1 radius, 2 England, 3 provider"
// @Param lat query number false "Searcher latitude"
// @Param lng query number false "Searcher longitude"
// @Param rad query integer false "Search radius in miles"
// @Param subjects query string false "Comma separated subject codes"
// @Success 200 {object} service.ResultsPage
// @Failure 502 {object} map[string]any
// @Router /results [get]
func (h *Handler) Results(c *gin.Context) {
	raw := params.FromValues(c.Request.URL.Query())
	page, err := h.ResultsView.Build(c.Request.Context(), raw)
	if err != nil {
		h.fail(c, "Failed to load results", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Provider filter
// @Description Resolves a provider query; redirects on a unique match or an error, otherwise lists candidates
// @Tags filters
// @Produce json
// @Param query query string true "Provider name"
// @Success 200 {object} map[string]any
// @Success 302
// @Failure 502 {object} map[string]any
// @Router /results/filter/provider [get]
func (h *Handler) ProviderFilter(c *gin.Context) {
	h.resolve(c, h.Providers, "Failed to look up providers")
}

// @Summary Location filter submit
// @Tags filters
// @Param l query string true "1 radius, 2 England, 3 provider"
// @Param lq query string false "Place or postcode"
// @Param query query string false "Provider name"
// @Success 302
// @Failure 502 {object} map[string]any
// @Router /results/filter/location/submit [get]
func (h *Handler) LocationSubmit(c *gin.Context) {
	h.resolve(c, h.Locations, "Failed to resolve location")
}

// @Summary Start the filter wizard
// @Tags filters
// @Success 302
// @Router /start [get]
func (h *Handler) StartWizard(c *gin.Context) {
	raw := params.FilterParams(params.FromValues(c.Request.URL.Query()))
	setFlash(c, Flash{StartWizard: true})
	c.Redirect(http.StatusFound, service.Redirect{Path: service.PathLocationFilter, Params: raw}.URL())
}

// @Summary Provider search page
// @Description Renders the flashed field error, the wizard flag and the carried filter params
// @Tags filters
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	h.filterPage(c)
}

// @Summary Location filter page
// @Tags filters
// @Produce json
// @Success 200 {object} map[string]any
// @Router /results/filter/location [get]
func (h *Handler) LocationFilter(c *gin.Context) {
	h.filterPage(c)
}

// filterPage consumes the flash; the wizard flag survives until the next
// submit reads it.
func (h *Handler) filterPage(c *gin.Context) {
	raw := params.FromValues(c.Request.URL.Query())
	flash := readFlash(c)
	if flash.StartWizard {
		setFlash(c, Flash{StartWizard: true})
	}
	c.JSON(http.StatusOK, gin.H{
		"error":        flash.Error,
		"start_wizard": flash.StartWizard,
		"params":       params.FilterParams(raw).Values(),
	})
}

func (h *Handler) resolve(c *gin.Context, r Resolver, failMessage string) {
	raw := params.FromValues(c.Request.URL.Query())
	flash := readFlash(c)

	d, err := r.Resolve(c.Request.Context(), raw, flash.StartWizard)
	if err != nil {
		h.fail(c, failMessage, err)
		return
	}
	if d.Redirects() {
		next := Flash{Error: d.Error}
		if d.Redirect.Path != service.PathResults {
			next.StartWizard = flash.StartWizard
		}
		if next.Error != nil || next.StartWizard {
			setFlash(c, next)
		}
		c.Redirect(http.StatusFound, d.Redirect.URL())
		return
	}

	suggestions := d.Suggestions
	if suggestions == nil {
		suggestions = []models.ProviderSuggestion{}
	}
	c.JSON(http.StatusOK, gin.H{
		"state":       d.State,
		"query":       raw.Get(params.KeyQuery),
		"suggestions": suggestions,
		"params":      params.FilterParams(raw).Values(),
	})
}

type suggestionQuery struct {
	Query string `form:"query" validate:"max=200"`
}

const minSuggestionQuery = 3

// @Summary Provider autocomplete
// @Tags filters
// @Produce json
// @Param query query string true "At least three characters"
// @Success 200 {array} models.ProviderSuggestion
// @Failure 400 {object} map[string]any
// @Router /provider-suggestions [get]
func (h *Handler) ProviderSuggestions(c *gin.Context) {
	var q suggestionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query", err.Error())
		return
	}
	if err := h.Validator.Struct(q); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	empty := []models.ProviderSuggestion{}
	if len([]rune(q.Query)) < minSuggestionQuery {
		c.JSON(http.StatusOK, empty)
		return
	}

	items, err := h.Suggestions.ProviderSuggestions(c.Request.Context(), h.Cycle, q.Query)
	if err != nil {
		h.Logger.Warn().Err(err).Str("query", q.Query).Msg("provider suggestions failed")
		c.JSON(http.StatusOK, empty)
		return
	}
	if items == nil {
		items = empty
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) fail(c *gin.Context, message string, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, teachertraining.ErrMalformedPayload):
		status, code = http.StatusBadGateway, "UPSTREAM_MALFORMED"
	case errors.Is(err, teachertraining.ErrUpstreamUnavailable):
		status, code = http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, geocode.ErrUnavailable):
		status, code = http.StatusBadGateway, "GEOCODER_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"
	}
	h.Logger.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg(message)
	writeError(c, status, code, message, err.Error())
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
