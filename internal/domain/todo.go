package domain

import "time"

type Todo struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	StartDate Date      `json:"start_date"`
	EndDate   Date      `json:"end_date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Covers reports whether d falls inside the todo's inclusive date range.
func (t *Todo) Covers(d Date) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}
