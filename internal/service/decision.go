package service

import (
	"github.com/find-teacher-training/search/internal/models"
	"github.com/find-teacher-training/search/internal/params"
)

const (
	PathRoot           = "/"
	PathResults        = "/results"
	PathLocationFilter = "/results/filter/location"
	PathProviderFilter = "/results/filter/provider"
)

type State string

const (
	StateRedirectBack       State = "redirect_back"
	StateRedirectToResults  State = "redirect_to_results"
	StateRedirect           State = "redirect"
	StateAwaitingRefinement State = "awaiting_refinement"
)

// Kind classifies a rejected submission.
type Kind string

const (
	KindBlankInput    Kind = "blank_input"
	KindTooShortInput Kind = "too_short_input"
	KindNoMatchFound  Kind = "no_match_found"
	KindNoOption      Kind = "no_option"
	KindUnknownPlace  Kind = "unknown_location"
)

const (
	FieldProvider = "provider"
	FieldLocation = "location"

	MessageBlankProvider   = "blank_provider"
	MessageMissingProvider = "missing_provider"
	MessageNoOption        = "no_option"
	MessageBlankLocation   = "blank_location"
	MessageUnknownLocation = "unknown_location"
)

// FieldError is a user-facing field/message pair carried on a redirect.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Redirect struct {
	Path   string
	Params params.Raw
}

// URL renders the redirect target with its parameters as a query string.
func (r Redirect) URL() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Values().Encode()
}

type Decision struct {
	State       State
	Kind        Kind
	Error       *FieldError
	Redirect    *Redirect
	Suggestions []models.ProviderSuggestion
}

func (d Decision) Redirects() bool {
	return d.Redirect != nil
}

func backPath(startWizard bool) string {
	if startWizard {
		return PathRoot
	}
	return PathLocationFilter
}
