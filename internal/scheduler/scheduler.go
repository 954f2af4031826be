package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MiraclePlan/miracleplan-backend/config"
	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
	"github.com/MiraclePlan/miracleplan-backend/internal/service"
)

// Scheduler runs the daily maintenance job (completed-flag reset and
// expired-todo purge) at the configured wall-clock time.
type Scheduler struct {
	cron        *cron.Cron
	cfg         *config.Config
	todoService *service.TodoService
}

func New(cfg *config.Config, todoSvc *service.TodoService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:        c,
		cfg:         cfg,
		todoService: todoSvc,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	at, err := time.Parse("15:04", s.cfg.ResetTime)
	if err != nil {
		return fmt.Errorf("parse reset time: %w", err)
	}

	spec := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	if _, err := s.cron.AddFunc(spec, s.runMaintenance); err != nil {
		return fmt.Errorf("add maintenance job: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, reset: %s)", s.cfg.Timezone, s.cfg.ResetTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) runMaintenance() {
	today := domain.DateOf(time.Now().In(s.cfg.Timezone))
	s.todoService.RunDailyMaintenance(today)
}
