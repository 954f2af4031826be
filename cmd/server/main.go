package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MiraclePlan/miracleplan-backend/config"
	"github.com/MiraclePlan/miracleplan-backend/internal/auth"
	"github.com/MiraclePlan/miracleplan-backend/internal/scheduler"
	"github.com/MiraclePlan/miracleplan-backend/internal/server"
	"github.com/MiraclePlan/miracleplan-backend/internal/service"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	authn := auth.New(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userSvc := service.NewUserService(store, authn)
	todoSvc := service.NewTodoService(store)
	groupSvc := service.NewGroupService(store)
	calendarSvc := service.NewCalendarService(store, cfg.Timezone)

	srv := server.New(cfg, authn, userSvc, todoSvc, groupSvc, calendarSvc)
	sched := scheduler.New(cfg, todoSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("MiraclePlan backend started on :%s", cfg.ServerPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping server: %v", err)
	}

	log.Println("MiraclePlan backend stopped")
}
