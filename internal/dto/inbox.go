package dto

import "github.com/noah-isme/tutor-directory-api/internal/models"

// InboxQuery pages through admin inbox listings.
type InboxQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Filter converts the query into a repository filter.
func (q InboxQuery) Filter() models.InboxFilter {
	return models.InboxFilter{Page: q.Page, PageSize: q.PageSize}
}

// SubjectQuery narrows the subjects page.
type SubjectQuery struct {
	Search string `form:"search"`
	Level  string `form:"level"`
}

// Filter converts the query into a catalog filter.
func (q SubjectQuery) Filter() models.SubjectFilter {
	return models.SubjectFilter{Search: q.Search, Level: q.Level}
}
