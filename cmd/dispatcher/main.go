package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/notify"
	"github.com/oleandr/stride/internal/repository"
)

func main() {
	cfg := config.Load()
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	store, err := repository.NewStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("failed to close store: %v", err)
		}
	}()

	queue, err := notify.NewQueue(cfg.RedisAddr)
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := queue.Close(); err != nil {
			log.Printf("failed to close queue: %v", err)
		}
	}()

	dispatcherID := os.Getenv("DISPATCHER_ID")
	if dispatcherID == "" {
		dispatcherID = fmt.Sprintf("dispatcher-%d", time.Now().Unix())
	}

	d := notify.NewDispatcher(dispatcherID, queue, store)

	email := notify.NewEmailSender(cfg.FromName, cfg.FromAddress, cfg.EmailAPIKey)
	d.RegisterSender("email", email.Send)

	go d.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down dispatcher...")
	d.Stop()
}
