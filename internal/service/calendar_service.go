package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

// CalendarService derives the per-day status feed from a user's todos.
// It holds no state between calls; the feed is recomputed every time.
type CalendarService struct {
	storage *storage.Storage
	tz      *time.Location
	now     func() time.Time
}

func NewCalendarService(s *storage.Storage, tz *time.Location) *CalendarService {
	return &CalendarService{storage: s, tz: tz, now: time.Now}
}

func (s *CalendarService) Statuses(ownerID int64) ([]domain.DayStatus, error) {
	todos, err := s.storage.ListTodosByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return ComputeStatuses(todos, s.Today()), nil
}

// Today is the service's reference date in the configured timezone.
func (s *CalendarService) Today() domain.Date {
	return domain.DateOf(s.now().In(s.tz))
}

// ComputeStatuses maps every calendar day covered by at least one todo's
// inclusive [start,end] range to a status, sorted ascending by date.
//
// A day's status depends on all todos covering it, uniformly for past,
// present and future days:
//
//	day > today                      -> upcoming
//	every covering todo completed    -> success
//	day == today                     -> in-progress
//	day < today                      -> failed
//
// Input is not mutated; zero todos yield an empty feed. An inverted range
// contributes no days (creation rejects such ranges, so this is only a
// safeguard against hand-edited rows).
func ComputeStatuses(todos []*domain.Todo, today domain.Date) []domain.DayStatus {
	// allDone[d] is true while every enumerated todo covering d is completed.
	allDone := make(map[domain.Date]bool)
	for _, t := range todos {
		for d := t.StartDate; !d.After(t.EndDate); d = d.AddDays(1) {
			done, seen := allDone[d]
			allDone[d] = t.Completed && (done || !seen)
		}
	}

	statuses := make([]domain.DayStatus, 0, len(allDone))
	for d, done := range allDone {
		statuses = append(statuses, domain.DayStatus{
			Date:   d,
			Status: classify(d, today, done),
		})
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Date.Before(statuses[j].Date)
	})
	return statuses
}

func classify(d, today domain.Date, allCompleted bool) domain.Status {
	switch {
	case d.After(today):
		return domain.StatusUpcoming
	case allCompleted:
		return domain.StatusSuccess
	case d.Equal(today):
		return domain.StatusInProgress
	default:
		return domain.StatusFailed
	}
}
