package models

import "time"

// JoinDateLayout is the calendar format of Tutor.JoinDate.
const JoinDateLayout = "2006-01-02"

// Tutor represents one directory entry describing a private teacher.
type Tutor struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Image           string   `json:"image" yaml:"image"`
	Subjects        []string `json:"subjects" yaml:"subjects"`
	EducationLevels []string `json:"educationLevel" yaml:"educationLevel"`
	Locations       []string `json:"locations" yaml:"locations"`
	Description     string   `json:"description" yaml:"description"`
	TeachingMethod  string   `json:"teachingMethod" yaml:"teachingMethod"`
	ContactWhatsapp string   `json:"contactWhatsapp" yaml:"contactWhatsapp"`
	ContactEmail    string   `json:"contactEmail" yaml:"contactEmail"`
	Rating          float64  `json:"rating" yaml:"rating"`
	ReviewsCount    int      `json:"reviewsCount" yaml:"reviewsCount"`
	IsOnline        bool     `json:"isOnline" yaml:"isOnline"`
	IsApproved      bool     `json:"isApproved" yaml:"isApproved"`
	JoinDate        string   `json:"joinDate" yaml:"joinDate"`
}

// Joined parses JoinDate. Unparsable dates yield the zero time.
func (t Tutor) Joined() time.Time {
	ts, err := time.Parse(JoinDateLayout, t.JoinDate)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Clone returns a deep copy so callers cannot mutate catalog slices.
func (t Tutor) Clone() Tutor {
	t.Subjects = append([]string(nil), t.Subjects...)
	t.EducationLevels = append([]string(nil), t.EducationLevels...)
	t.Locations = append([]string(nil), t.Locations...)
	return t
}

// Review is a student's feedback for a tutor.
type Review struct {
	ID          string  `json:"id" yaml:"id"`
	TutorID     string  `json:"teacherId" yaml:"teacherId"`
	StudentName string  `json:"studentName" yaml:"studentName"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Comment     string  `json:"comment" yaml:"comment"`
	Date        string  `json:"date" yaml:"date"`
}

// TutorProfile is a tutor together with their reviews.
type TutorProfile struct {
	Tutor
	Reviews []Review `json:"reviews"`
}
