package domain

// Status labels a single calendar day on a user's plan.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in-progress"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// DayStatus is one entry of the derived calendar feed. It is computed on
// every request and never persisted.
type DayStatus struct {
	Date   Date   `json:"date"`
	Status Status `json:"status"`
}
