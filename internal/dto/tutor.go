package dto

import "github.com/noah-isme/tutor-directory-api/internal/models"

// Filter operation verbs accepted by the filter session endpoint.
const (
	FilterOpSet    = "set"
	FilterOpRemove = "remove"
	FilterOpClear  = "clear"
)

// FilterOp is one interaction replayed against a filter session.
type FilterOp struct {
	Op    string      `json:"op" binding:"required,oneof=set remove clear"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// FilterSessionRequest imports Query once and then applies Ops in order.
type FilterSessionRequest struct {
	Query string     `json:"query"`
	Ops   []FilterOp `json:"ops" binding:"dive"`
}

// FilterSessionResponse reports the outcome of a replayed session.
type FilterSessionResponse struct {
	Filters       models.FilterState `json:"filters"`
	Location      string             `json:"location"`
	ActiveFilters int                `json:"activeFilters"`
	Propagations  int                `json:"propagations"`
	TotalResults  int                `json:"totalResults"`
	Tutors        []models.Tutor     `json:"tutors"`
}

// TutorListing is a filtered listing and the state that produced it.
type TutorListing struct {
	Filters       models.FilterState `json:"filters"`
	Location      string             `json:"location"`
	ActiveFilters int                `json:"activeFilters"`
	Tutors        []models.Tutor     `json:"tutors"`
}

// SubjectSummary is a subject with the number of tutors teaching it at one
// level and the listing location showing them.
type SubjectSummary struct {
	models.Subject
	TutorCount int    `json:"tutorCount"`
	Listing    string `json:"listing"`
}

// SubjectGroup lists subjects offered at one education level.
type SubjectGroup struct {
	Level    string           `json:"level"`
	Subjects []SubjectSummary `json:"subjects"`
}

// SubjectListing is the subjects page payload.
type SubjectListing struct {
	TotalSubjects int            `json:"totalSubjects"`
	Groups        []SubjectGroup `json:"groups"`
}

// LevelSummary is an education level with tutor counts.
type LevelSummary struct {
	models.EducationLevel
	TutorCount    int                 `json:"tutorCount"`
	SubjectCounts []models.NamedCount `json:"subjectCounts"`
	Listing       string              `json:"listing"`
}

// LocationSummary is a location with its tutor count.
type LocationSummary struct {
	models.Location
	TutorCount int    `json:"tutorCount"`
	Listing    string `json:"listing"`
}
