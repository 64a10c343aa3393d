package service

import (
	"bytes"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/tutor-directory-api/internal/models"
)

// NameCollation is the language whose collation orders tutors by name.
var NameCollation = language.Arabic

// ApplyFilters returns the tutors matching state, sorted by state.SortBy.
// It never mutates tutors and always returns a non-nil slice.
func ApplyFilters(tutors []models.Tutor, state models.FilterState) []models.Tutor {
	filtered := make([]models.Tutor, 0, len(tutors))
	search := strings.ToLower(state.SearchTerm)
	for _, tutor := range tutors {
		if matchesFilters(tutor, state, search) {
			filtered = append(filtered, tutor)
		}
	}

	if less := tutorOrdering(state.SortBy); less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return less(filtered[i], filtered[j])
		})
	}
	return filtered
}

func matchesFilters(tutor models.Tutor, state models.FilterState, search string) bool {
	if search != "" && !matchesSearch(tutor, search) {
		return false
	}
	if state.SelectedLevel != "" && !contains(tutor.EducationLevels, state.SelectedLevel) {
		return false
	}
	if state.SelectedSubject != "" && !contains(tutor.Subjects, state.SelectedSubject) {
		return false
	}
	if state.SelectedLocation != "" && !contains(tutor.Locations, state.SelectedLocation) {
		return false
	}
	if tutor.Rating < state.MinRating {
		return false
	}
	if state.OnlineOnly && !tutor.IsOnline {
		return false
	}
	return true
}

// matchesSearch expects search to be lower-cased already.
func matchesSearch(tutor models.Tutor, search string) bool {
	if strings.Contains(strings.ToLower(tutor.Name), search) {
		return true
	}
	for _, subject := range tutor.Subjects {
		if strings.Contains(strings.ToLower(subject), search) {
			return true
		}
	}
	for _, location := range tutor.Locations {
		if strings.Contains(strings.ToLower(location), search) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// tutorOrdering returns nil for sort values that keep the filtered order.
func tutorOrdering(sortBy string) func(a, b models.Tutor) bool {
	switch sortBy {
	case models.SortByRating:
		return func(a, b models.Tutor) bool { return a.Rating > b.Rating }
	case models.SortByReviews:
		return func(a, b models.Tutor) bool { return a.ReviewsCount > b.ReviewsCount }
	case models.SortByNewest:
		return func(a, b models.Tutor) bool { return a.Joined().After(b.Joined()) }
	case models.SortByName:
		// Collators keep scratch buffers, so each ordering gets its own.
		col := collate.New(NameCollation)
		return func(a, b models.Tutor) bool { return compareNames(col, a.Name, b.Name) < 0 }
	default:
		return nil
	}
}

// hamzaAlef ranks the alef forms that share a primary letter with bare alef.
// Alef madda stays a letter of its own.
var hamzaAlef = map[rune]byte{
	'ا': 0,
	'أ': 1,
	'إ': 2,
	'ٱ': 3,
}

// compareNames orders Arabic names before names in other scripts. Within a
// script, hamza forms of alef compare as bare alef and only break ties.
func compareNames(col *collate.Collator, a, b string) int {
	if ra, rb := scriptRank(a), scriptRank(b); ra != rb {
		return ra - rb
	}
	foldedA, marksA := foldAlef(a)
	foldedB, marksB := foldAlef(b)
	if c := col.CompareString(foldedA, foldedB); c != 0 {
		return c
	}
	if c := bytes.Compare(marksA, marksB); c != 0 {
		return c
	}
	return col.CompareString(a, b)
}

// scriptRank is 0 for names whose first letter is Arabic, 1 otherwise.
func scriptRank(name string) int {
	for _, r := range name {
		if unicode.IsLetter(r) {
			if unicode.Is(unicode.Arabic, r) {
				return 0
			}
			return 1
		}
	}
	return 1
}

func foldAlef(name string) (string, []byte) {
	var (
		b     strings.Builder
		marks []byte
	)
	b.Grow(len(name))
	for _, r := range name {
		if rank, ok := hamzaAlef[r]; ok {
			marks = append(marks, rank)
			r = 'ا'
		}
		b.WriteRune(r)
	}
	return b.String(), marks
}
