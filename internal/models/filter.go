package models

import (
	"fmt"
	"math"
)

// Sort orders understood by the listing. Any other value keeps filtered order.
const (
	SortByRating  = "rating"
	SortByReviews = "reviews"
	SortByNewest  = "newest"
	SortByName    = "name"
)

// Rating bounds and slider step for MinRating.
const (
	MinRatingFloor = 0.0
	MinRatingCeil  = 5.0
	MinRatingStep  = 0.5
)

// FilterKey names a single FilterState field.
type FilterKey string

const (
	KeySearchTerm       FilterKey = "searchTerm"
	KeySelectedLevel    FilterKey = "selectedLevel"
	KeySelectedSubject  FilterKey = "selectedSubject"
	KeySelectedLocation FilterKey = "selectedLocation"
	KeyMinRating        FilterKey = "minRating"
	KeyOnlineOnly       FilterKey = "onlineOnly"
	KeySortBy           FilterKey = "sortBy"
)

// FilterKeys lists every key in declaration order.
var FilterKeys = []FilterKey{
	KeySearchTerm,
	KeySelectedLevel,
	KeySelectedSubject,
	KeySelectedLocation,
	KeyMinRating,
	KeyOnlineOnly,
	KeySortBy,
}

// ParseFilterKey resolves a key by name.
func ParseFilterKey(raw string) (FilterKey, error) {
	for _, k := range FilterKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown filter key %q", raw)
}

// FilterState is the complete search/filter/sort selection of a listing.
// The zero value is not the default; use DefaultFilterState.
type FilterState struct {
	SearchTerm       string  `json:"searchTerm"`
	SelectedLevel    string  `json:"selectedLevel"`
	SelectedSubject  string  `json:"selectedSubject"`
	SelectedLocation string  `json:"selectedLocation"`
	MinRating        float64 `json:"minRating"`
	OnlineOnly       bool    `json:"onlineOnly"`
	SortBy           string  `json:"sortBy"`
}

// DefaultFilterState returns the state with no filter active, sorted by rating.
func DefaultFilterState() FilterState {
	return FilterState{SortBy: SortByRating}
}

// Equal reports full structural equality.
func (s FilterState) Equal(other FilterState) bool {
	return s == other
}

// ActiveCount counts fields that deviate from their default. SortBy is not a filter.
func (s FilterState) ActiveCount() int {
	count := 0
	for _, active := range []bool{
		s.SearchTerm != "",
		s.SelectedLevel != "",
		s.SelectedSubject != "",
		s.SelectedLocation != "",
		s.MinRating > 0,
		s.OnlineOnly,
	} {
		if active {
			count++
		}
	}
	return count
}

// ClampRating maps r into [0,5]; NaN and infinities become 0.
func ClampRating(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return MinRatingFloor
	}
	if r < MinRatingFloor {
		return MinRatingFloor
	}
	if r > MinRatingCeil {
		return MinRatingCeil
	}
	return r
}

// DefaultValue returns the default for key as it would be passed to an update.
func DefaultValue(key FilterKey) interface{} {
	switch key {
	case KeyMinRating:
		return 0.0
	case KeyOnlineOnly:
		return false
	case KeySortBy:
		return SortByRating
	default:
		return ""
	}
}
