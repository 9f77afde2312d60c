package entity

import "time"

// Project represents a construction project tracked by the system
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	LeaderID    string    `json:"leader_id"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProgressUpdate is a leader's log of work done on a project, optionally
// carrying photos taken on site
type ProgressUpdate struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	LeaderID    string    `json:"leader_id"`
	Description string    `json:"description"`
	Percentage  float64   `json:"percentage"`
	ImageIDs    []int64   `json:"image_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
