package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
)

func date(day int) domain.Date {
	return domain.NewDate(2024, time.January, day)
}

func todo(start, end int, completed bool) *domain.Todo {
	return &domain.Todo{
		Title:     "todo",
		StartDate: date(start),
		EndDate:   date(end),
		Completed: completed,
	}
}

func entry(day int, status domain.Status) domain.DayStatus {
	return domain.DayStatus{Date: date(day), Status: status}
}

func TestComputeStatuses(t *testing.T) {
	today := date(10)

	tests := []struct {
		name  string
		todos []*domain.Todo
		want  []domain.DayStatus
	}{
		{
			name:  "no todos",
			todos: nil,
			want:  []domain.DayStatus{},
		},
		{
			name:  "single day today incomplete",
			todos: []*domain.Todo{todo(10, 10, false)},
			want:  []domain.DayStatus{entry(10, domain.StatusInProgress)},
		},
		{
			name:  "single day today completed",
			todos: []*domain.Todo{todo(10, 10, true)},
			want:  []domain.DayStatus{entry(10, domain.StatusSuccess)},
		},
		{
			name:  "past incomplete is failed",
			todos: []*domain.Todo{todo(8, 9, false)},
			want: []domain.DayStatus{
				entry(8, domain.StatusFailed),
				entry(9, domain.StatusFailed),
			},
		},
		{
			name:  "past completed is success",
			todos: []*domain.Todo{todo(8, 9, true)},
			want: []domain.DayStatus{
				entry(8, domain.StatusSuccess),
				entry(9, domain.StatusSuccess),
			},
		},
		{
			name:  "future is upcoming regardless of completion",
			todos: []*domain.Todo{todo(11, 12, true), todo(12, 13, false)},
			want: []domain.DayStatus{
				entry(11, domain.StatusUpcoming),
				entry(12, domain.StatusUpcoming),
				entry(13, domain.StatusUpcoming),
			},
		},
		{
			name: "overlap on today needs every todo completed",
			todos: []*domain.Todo{
				todo(10, 10, true),
				todo(10, 10, false),
			},
			want: []domain.DayStatus{entry(10, domain.StatusInProgress)},
		},
		{
			name: "overlap on past day needs every todo completed",
			todos: []*domain.Todo{
				todo(8, 8, true),
				todo(8, 8, false),
			},
			want: []domain.DayStatus{entry(8, domain.StatusFailed)},
		},
		{
			name: "overlap order does not matter",
			todos: []*domain.Todo{
				todo(8, 8, false),
				todo(8, 8, true),
			},
			want: []domain.DayStatus{entry(8, domain.StatusFailed)},
		},
		{
			name: "range spanning today",
			todos: []*domain.Todo{
				todo(9, 11, false),
			},
			want: []domain.DayStatus{
				entry(9, domain.StatusFailed),
				entry(10, domain.StatusInProgress),
				entry(11, domain.StatusUpcoming),
			},
		},
		{
			name: "inverted range contributes nothing",
			todos: []*domain.Todo{
				todo(12, 11, false),
				todo(10, 10, true),
			},
			want: []domain.DayStatus{entry(10, domain.StatusSuccess)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatuses(tt.todos, today)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeStatuses:\n got  %v\n want %v", got, tt.want)
			}
		})
	}
}

// The worked scenario: todo A covers Jan 1-3 and is incomplete, todo B
// covers Jan 2 and is completed, today is Jan 2.
func TestComputeStatusesScenario(t *testing.T) {
	todos := []*domain.Todo{
		todo(1, 3, false), // A
		todo(2, 2, true),  // B
	}
	got := ComputeStatuses(todos, date(2))
	want := []domain.DayStatus{
		entry(1, domain.StatusFailed),
		entry(2, domain.StatusInProgress), // A is active today and incomplete
		entry(3, domain.StatusUpcoming),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("scenario:\n got  %v\n want %v", got, want)
	}
}

func TestComputeStatusesIdempotent(t *testing.T) {
	todos := []*domain.Todo{
		todo(1, 3, false),
		todo(2, 5, true),
		todo(9, 12, false),
	}
	first := ComputeStatuses(todos, date(10))
	second := ComputeStatuses(todos, date(10))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run differs:\n got  %v\n want %v", second, first)
	}
}

// Every date inside a range appears exactly once, and nothing else does.
func TestComputeStatusesCoverage(t *testing.T) {
	todos := []*domain.Todo{
		todo(1, 4, false),
		todo(3, 6, true),
		todo(20, 20, false),
	}
	got := ComputeStatuses(todos, date(10))

	wantDays := []int{1, 2, 3, 4, 5, 6, 20}
	if len(got) != len(wantDays) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(wantDays), got)
	}
	for i, day := range wantDays {
		if !got[i].Date.Equal(date(day)) {
			t.Errorf("entry %d: got %s, want %s", i, got[i].Date, date(day))
		}
	}
}

func TestComputeStatusesDoesNotMutateInput(t *testing.T) {
	a := todo(1, 3, false)
	copyA := *a
	ComputeStatuses([]*domain.Todo{a}, date(2))
	if *a != copyA {
		t.Errorf("input mutated: got %+v, want %+v", *a, copyA)
	}
}

func TestCalendarServiceStatuses(t *testing.T) {
	store := newTestStorage(t)
	user := createTestUser(t, store, "calendar-user")

	todos := NewTodoService(store)
	if _, err := todos.Create(user.ID, "span", date(9), date(11)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	done, err := todos.Create(user.ID, "done", date(8), date(8))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := todos.SetCompleted(done.ID, user.ID, true); err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}

	svc := NewCalendarService(store, time.UTC)
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	}

	got, err := svc.Statuses(user.ID)
	if err != nil {
		t.Fatalf("Statuses failed: %v", err)
	}
	want := []domain.DayStatus{
		entry(8, domain.StatusSuccess),
		entry(9, domain.StatusFailed),
		entry(10, domain.StatusInProgress),
		entry(11, domain.StatusUpcoming),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Statuses:\n got  %v\n want %v", got, want)
	}
}
