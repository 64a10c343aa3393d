package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

// FilterListener receives every propagated filter state.
type FilterListener interface {
	FiltersChanged(state models.FilterState)
}

// FilterListenerFunc adapts a plain function to FilterListener.
type FilterListenerFunc func(state models.FilterState)

// FiltersChanged calls f.
func (f FilterListenerFunc) FiltersChanged(state models.FilterState) { f(state) }

// FilterSession owns the filter state of one listing and fans changes out to
// its listeners. A session is not safe for concurrent use.
type FilterSession struct {
	state        models.FilterState
	dispatched   models.FilterState
	listeners    []FilterListener
	propagations int
}

// NewFilterSession starts a session from initial. The initial state counts as
// already dispatched, so updates that leave it unchanged propagate nothing.
func NewFilterSession(initial models.FilterState, listeners ...FilterListener) *FilterSession {
	initial.MinRating = models.ClampRating(initial.MinRating)
	return &FilterSession{
		state:      initial,
		dispatched: initial,
		listeners:  append([]FilterListener(nil), listeners...),
	}
}

// Subscribe adds a listener for subsequent propagations.
func (s *FilterSession) Subscribe(listener FilterListener) {
	if listener != nil {
		s.listeners = append(s.listeners, listener)
	}
}

// State returns the current filter state.
func (s *FilterSession) State() models.FilterState {
	return s.state
}

// ActiveCount returns the number of active filters.
func (s *FilterSession) ActiveCount() int {
	return s.state.ActiveCount()
}

// Propagations returns how many times listeners were notified.
func (s *FilterSession) Propagations() int {
	return s.propagations
}

// Update replaces the field named by key and propagates when the resulting
// state differs from the last dispatched one.
func (s *FilterSession) Update(key models.FilterKey, value interface{}) error {
	next := s.state
	switch key {
	case models.KeySearchTerm, models.KeySelectedLevel, models.KeySelectedSubject, models.KeySelectedLocation:
		str, ok := value.(string)
		if !ok {
			return invalidFilterValue(key, value)
		}
		setText(&next, key, str)
	case models.KeyMinRating:
		rating, err := coerceRating(value)
		if err != nil {
			return invalidFilterValue(key, value)
		}
		next.MinRating = models.ClampRating(rating)
	case models.KeyOnlineOnly:
		online, ok := value.(bool)
		if !ok {
			return invalidFilterValue(key, value)
		}
		next.OnlineOnly = online
	case models.KeySortBy:
		sortBy, ok := value.(string)
		if !ok {
			return invalidFilterValue(key, value)
		}
		if sortBy == "" {
			sortBy = models.SortByRating
		}
		next.SortBy = sortBy
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter key %q", key))
	}

	s.state = next
	s.propagate()
	return nil
}

// ClearAll resets every field to its default in a single propagation.
func (s *FilterSession) ClearAll() {
	s.state = models.DefaultFilterState()
	s.dispatched = s.state
	s.notify()
}

// RemoveOne resets one field to its default. Sort order has no unset value,
// so removing it leaves the session untouched.
func (s *FilterSession) RemoveOne(key models.FilterKey) error {
	if key == models.KeySortBy {
		return nil
	}
	if _, err := models.ParseFilterKey(string(key)); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.Update(key, models.DefaultValue(key))
}

func (s *FilterSession) propagate() {
	if s.state.Equal(s.dispatched) {
		return
	}
	s.dispatched = s.state
	s.notify()
}

func (s *FilterSession) notify() {
	s.propagations++
	for _, listener := range s.listeners {
		listener.FiltersChanged(s.state)
	}
}

func setText(state *models.FilterState, key models.FilterKey, value string) {
	switch key {
	case models.KeySearchTerm:
		state.SearchTerm = value
	case models.KeySelectedLevel:
		state.SelectedLevel = value
	case models.KeySelectedSubject:
		state.SelectedSubject = value
	case models.KeySelectedLocation:
		state.SelectedLocation = value
	}
}

func coerceRating(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported rating type %T", value)
	}
}

func invalidFilterValue(key models.FilterKey, value interface{}) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid value %v for filter %s", value, key))
}
