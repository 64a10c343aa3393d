package models

import "time"

// DashboardTotals aggregates headline directory numbers.
type DashboardTotals struct {
	TotalTeachers    int     `json:"totalTeachers"`
	ApprovedTeachers int     `json:"approvedTeachers"`
	PendingTeachers  int     `json:"pendingTeachers"`
	TotalSubjects    int     `json:"totalSubjects"`
	TotalLocations   int     `json:"totalLocations"`
	AverageRating    float64 `json:"averageRating"`
	TotalReviews     int     `json:"totalReviews"`
	OnlineTeachers   int     `json:"onlineTeachers"`
}

// NamedCount pairs a reference name with the number of tutors offering it.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DashboardSummary is the admin dashboard payload.
type DashboardSummary struct {
	Totals              DashboardTotals `json:"totals"`
	BySubject           []NamedCount    `json:"bySubject"`
	ByLevel             []NamedCount    `json:"byLevel"`
	ByLocation          []NamedCount    `json:"byLocation"`
	PendingApplications int             `json:"pendingApplications"`
	UnreadMessages      int             `json:"unreadMessages"`
	System              *SystemMetrics  `json:"system,omitempty"`
}

// SystemMetrics is a point-in-time view of process counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	FilterRuns               uint64    `json:"filterRuns"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
