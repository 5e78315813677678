package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/find-teacher-training/search/internal/metrics"
	"github.com/find-teacher-training/search/internal/models"
	"github.com/find-teacher-training/search/internal/params"
)

type SuggestionSource interface {
	ProviderSuggestions(ctx context.Context, cycle, query string) ([]models.ProviderSuggestion, error)
}

// ProviderFlow resolves a free-text provider query into a results redirect,
// a redirect back with an error, or a list of candidates to choose from.
type ProviderFlow struct {
	Suggestions SuggestionSource
	Cycle       string
	Logger      zerolog.Logger
}

func (f *ProviderFlow) Resolve(ctx context.Context, raw params.Raw, startWizard bool) (Decision, error) {
	query := raw.Get(params.KeyQuery)

	if strings.TrimSpace(query) == "" {
		return f.reject(raw, startWizard, KindBlankInput, MessageBlankProvider), nil
	}
	if utf8.RuneCountInString(query) == 1 {
		return f.reject(raw, startWizard, KindTooShortInput, MessageMissingProvider), nil
	}

	suggestions, err := f.Suggestions.ProviderSuggestions(ctx, f.Cycle, query)
	if err != nil {
		metrics.FlowDecisions.WithLabelValues("provider", "error").Inc()
		return Decision{}, fmt.Errorf("provider suggestions: %w", err)
	}

	switch len(suggestions) {
	case 0:
		return f.reject(raw, startWizard, KindNoMatchFound, MessageMissingProvider), nil
	case 1:
		name := suggestions[0].Name
		f.Logger.Debug().Str("query", query).Str("provider", name).Msg("provider query resolved")
		metrics.FlowDecisions.WithLabelValues("provider", string(StateRedirectToResults)).Inc()
		return Decision{
			State: StateRedirectToResults,
			Redirect: &Redirect{
				Path:   PathResults,
				Params: params.WithoutPrevious(raw).Merge(params.Raw{params.KeyQuery: params.String(name)}),
			},
			Suggestions: suggestions,
		}, nil
	default:
		metrics.FlowDecisions.WithLabelValues("provider", string(StateAwaitingRefinement)).Inc()
		return Decision{State: StateAwaitingRefinement, Suggestions: suggestions}, nil
	}
}

func (f *ProviderFlow) reject(raw params.Raw, startWizard bool, kind Kind, message string) Decision {
	back := params.FilterParams(raw)
	if kind == KindBlankInput {
		back = back.Except(params.KeyQuery)
	}
	metrics.FlowDecisions.WithLabelValues("provider", string(kind)).Inc()
	return Decision{
		State:    StateRedirectBack,
		Kind:     kind,
		Error:    &FieldError{Field: FieldProvider, Message: message},
		Redirect: &Redirect{Path: backPath(startWizard), Params: back},
	}
}
