package models

// LocationType classifies a location entry.
type LocationType string

const (
	LocationCity   LocationType = "city"
	LocationArea   LocationType = "area"
	LocationOnline LocationType = "online"
)

// Subject is a taught subject and the levels it is offered at.
type Subject struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	EducationLevels []string `json:"educationLevels" yaml:"educationLevels"`
}

// EducationLevel is a school stage and the subjects taught in it.
type EducationLevel struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Subjects []string `json:"subjects" yaml:"subjects"`
}

// Location is a city, area or the online pseudo-location.
type Location struct {
	ID   string       `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
	Type LocationType `json:"type" yaml:"type"`
}

// SubjectFilter narrows the subjects listing.
type SubjectFilter struct {
	Search string
	Level  string
}
