package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

type TodoService struct {
	storage *storage.Storage
}

func NewTodoService(s *storage.Storage) *TodoService {
	return &TodoService{storage: s}
}

func (s *TodoService) Create(ownerID int64, title string, start, end domain.Date) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("todo title cannot be empty: %w", domain.ErrInvalid)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("todo dates are required: %w", domain.ErrInvalid)
	}
	// An inverted range would make the calendar feed undefined, so it is
	// rejected here rather than tolerated downstream.
	if end.Before(start) {
		return nil, fmt.Errorf("end_date %s before start_date %s: %w", end, start, domain.ErrInvalid)
	}

	todo := &domain.Todo{
		OwnerID:   ownerID,
		Title:     title,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.storage.CreateTodo(todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) List(ownerID int64) ([]*domain.Todo, error) {
	return s.storage.ListTodosByOwner(ownerID)
}

func (s *TodoService) ListCompleted(ownerID int64) ([]*domain.Todo, error) {
	return s.storage.ListCompletedTodosByOwner(ownerID)
}

func (s *TodoService) SetCompleted(todoID, ownerID int64, completed bool) (*domain.Todo, error) {
	todo, err := s.get(todoID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SetTodoCompleted(todoID, completed); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	todo.Completed = completed
	return todo, nil
}

func (s *TodoService) Delete(todoID, ownerID int64) error {
	if _, err := s.get(todoID, ownerID); err != nil {
		return err
	}
	return s.storage.DeleteTodo(todoID)
}

func (s *TodoService) get(todoID, ownerID int64) (*domain.Todo, error) {
	todo, err := s.storage.GetTodo(todoID)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if todo == nil {
		return nil, fmt.Errorf("todo %d: %w", todoID, domain.ErrNotFound)
	}
	if todo.OwnerID != ownerID {
		return nil, fmt.Errorf("todo %d: %w", todoID, domain.ErrForbidden)
	}
	return todo, nil
}

// RunDailyMaintenance performs the two independent nightly passes: clear
// every completed flag, then drop todos that ended before today. Each
// pass logs and the other still runs if one fails.
func (s *TodoService) RunDailyMaintenance(today domain.Date) {
	if n, err := s.storage.ResetAllCompleted(); err != nil {
		log.Printf("Daily reset failed: %v", err)
	} else {
		log.Printf("Daily reset: %d todos back to incomplete", n)
	}

	if n, err := s.storage.PurgeExpired(today); err != nil {
		log.Printf("Daily purge failed: %v", err)
	} else {
		log.Printf("Daily purge: %d expired todos removed", n)
	}
}
