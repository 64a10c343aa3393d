package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/noah-isme/tutor-directory-api/internal/models"
)

// TutorsPath is the listing location used when no parameter deviates from its default.
const TutorsPath = "/tutors"

var (
	queryDecoder = newQueryDecoder()
	queryEncoder = schema.NewEncoder()
)

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// TutorQuery is the query-string shape of a listing. Every field is carried as
// text so malformed input never fails decoding.
type TutorQuery struct {
	Search   string `schema:"search,omitempty"`
	Level    string `schema:"level,omitempty"`
	Subject  string `schema:"subject,omitempty"`
	Location string `schema:"location,omitempty"`
	Rating   string `schema:"rating,omitempty"`
	Online   string `schema:"online,omitempty"`
	Sort     string `schema:"sort,omitempty"`
}

// NewTutorQuery projects a state onto query parameters, leaving defaults empty.
func NewTutorQuery(state models.FilterState) TutorQuery {
	q := TutorQuery{
		Search:   state.SearchTerm,
		Level:    state.SelectedLevel,
		Subject:  state.SelectedSubject,
		Location: state.SelectedLocation,
	}
	if state.MinRating > 0 {
		q.Rating = strconv.FormatFloat(state.MinRating, 'f', -1, 64)
	}
	if state.OnlineOnly {
		q.Online = "true"
	}
	if state.SortBy != models.SortByRating {
		q.Sort = state.SortBy
	}
	return q
}

// State converts the query into a fully defined FilterState.
func (q TutorQuery) State() models.FilterState {
	state := models.DefaultFilterState()
	state.SearchTerm = q.Search
	state.SelectedLevel = q.Level
	state.SelectedSubject = q.Subject
	state.SelectedLocation = q.Location
	state.MinRating = parseRating(q.Rating)
	state.OnlineOnly = q.Online == "true"
	if q.Sort != "" {
		state.SortBy = q.Sort
	}
	return state
}

// ParseTutorQuery reads recognised listing parameters. Absent or malformed
// values fall back to their defaults; it never fails.
func ParseTutorQuery(values url.Values) models.FilterState {
	var q TutorQuery
	if err := queryDecoder.Decode(&q, firstValues(values)); err != nil {
		return models.DefaultFilterState()
	}
	return q.State()
}

// ParseTutorQueryString is ParseTutorQuery for a raw query string, with or without a leading "?".
func ParseTutorQueryString(raw string) models.FilterState {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil && len(values) == 0 {
		return models.DefaultFilterState()
	}
	return ParseTutorQuery(values)
}

// EncodeTutorQuery serialises state, omitting every parameter equal to its default.
func EncodeTutorQuery(state models.FilterState) url.Values {
	values := url.Values{}
	if err := queryEncoder.Encode(NewTutorQuery(state), values); err != nil {
		return url.Values{}
	}
	return values
}

// TutorsLocation returns the canonical listing location for state.
func TutorsLocation(state models.FilterState) string {
	encoded := EncodeTutorQuery(state).Encode()
	if encoded == "" {
		return TutorsPath
	}
	return TutorsPath + "?" + encoded
}

// parseRating accepts only a complete number, so "4abc" reads as 0.
func parseRating(raw string) float64 {
	if raw == "" {
		return 0
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return models.ClampRating(r)
}

// firstValues keeps only the first occurrence of each parameter.
func firstValues(values url.Values) map[string][]string {
	out := make(map[string][]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[:1]
		}
	}
	return out
}
