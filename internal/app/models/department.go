package models

import "time"

// Department represents a node in the organizational tree. A nil ParentID marks
// a root department.
type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}
