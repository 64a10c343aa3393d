package models

import "time"

// ApplicationStatus tracks review of a tutor application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// TeacherApplicationForm is the tutor registration form.
type TeacherApplicationForm struct {
	Name            string   `json:"name" validate:"required,notblank,max=100"`
	Phone           string   `json:"phone" validate:"required,notblank,max=30"`
	Email           string   `json:"email" validate:"required,email,max=255"`
	Subjects        []string `json:"subjects" validate:"required,min=1,dive,notblank"`
	EducationLevels []string `json:"educationLevels" validate:"required,min=1,dive,notblank"`
	Locations       []string `json:"locations" validate:"required,min=1,dive,notblank"`
	Description     string   `json:"description" validate:"required,notblank,max=5000"`
	TeachingMethod  string   `json:"teachingMethod" validate:"required,notblank,max=5000"`
	Image           string   `json:"image" validate:"omitempty,url,max=500"`
}

// ContactForm is the public contact-us form.
type ContactForm struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"required,notblank,max=30"`
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

// TeacherApplication is a stored, validated registration.
type TeacherApplication struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Subjects        []string          `json:"subjects"`
	EducationLevels []string          `json:"educationLevels"`
	Locations       []string          `json:"locations"`
	Image           string            `json:"image,omitempty"`
	Description     string            `json:"description"`
	TeachingMethod  string            `json:"teachingMethod"`
	Status          ApplicationStatus `json:"status"`
	SubmittedAt     time.Time         `json:"submissionDate"`
}

// ContactMessage is a stored, validated contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"date"`
}

// InboxFilter pages through stored submissions.
type InboxFilter struct {
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
