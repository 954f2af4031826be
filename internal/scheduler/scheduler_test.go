package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MiraclePlan/miracleplan-backend/config"
	"github.com/MiraclePlan/miracleplan-backend/internal/service"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

func testConfig(resetTime string) *config.Config {
	return &config.Config{
		Timezone:  time.UTC,
		ResetTime: resetTime,
	}
}

func TestSchedulerStartStop(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sched := New(testConfig("00:00"), service.NewTodoService(store))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after context cancel")
	}
	sched.Stop()
}

func TestSchedulerRejectsBadResetTime(t *testing.T) {
	sched := New(testConfig("24:61"), nil)
	if err := sched.Start(context.Background()); err == nil {
		t.Error("expected error for invalid reset time")
	}
}
