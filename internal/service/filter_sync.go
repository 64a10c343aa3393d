package service

import (
	"net/url"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
)

// QuerySync projects filter state onto the listing URL. The query string is
// imported once; after that the URL only follows the session.
type QuerySync struct {
	imported bool
	initial  models.FilterState
	location string
	writes   int
}

// NewQuerySync returns a synchronizer pointing at the bare listing path.
func NewQuerySync() *QuerySync {
	return &QuerySync{initial: models.DefaultFilterState(), location: dto.TutorsPath}
}

// Import reads the query on its first call. Later calls return the state of
// the first import and ignore their argument.
func (q *QuerySync) Import(values url.Values) models.FilterState {
	if q.imported {
		return q.initial
	}
	q.imported = true
	q.initial = dto.ParseTutorQuery(values)
	q.location = dto.TutorsLocation(q.initial)
	return q.initial
}

// ImportString is Import for a raw query string.
func (q *QuerySync) ImportString(raw string) models.FilterState {
	if q.imported {
		return q.initial
	}
	q.imported = true
	q.initial = dto.ParseTutorQueryString(raw)
	q.location = dto.TutorsLocation(q.initial)
	return q.initial
}

// Imported reports whether the query has been read.
func (q *QuerySync) Imported() bool {
	return q.imported
}

// FiltersChanged records the canonical location for state.
func (q *QuerySync) FiltersChanged(state models.FilterState) {
	q.location = dto.TutorsLocation(state)
	q.writes++
}

// Location is the most recently written listing location.
func (q *QuerySync) Location() string {
	return q.location
}

// Writes counts location writes since the import.
func (q *QuerySync) Writes() int {
	return q.writes
}
