package main

import (
	"context"
	"flag"
	"log"

	"github.com/oleandr/stride/internal/batch"
	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/notify"
	"github.com/oleandr/stride/internal/repository"
)

func main() {
	userID := flag.String("user", "", "analyze a single user instead of every active user")
	dryRun := flag.Bool("dry-run", false, "compute interventions without saving state or notifying")
	verbose := flag.Bool("verbose", false, "log per-user analysis details")
	workers := flag.Int("workers", 4, "number of users analyzed concurrently")
	flag.Parse()

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

	var notifier batch.Notifier
	if !*dryRun {
		queue, err := notify.NewQueue(cfg.RedisAddr)
		if err != nil {
			log.Fatal(err)
		}

		defer func() {
			if err := queue.Close(); err != nil {
				log.Printf("failed to close queue: %v", err)
			}
		}()
		notifier = queue
	}

	runner := batch.NewRunner(config.DefaultThresholds(), store, notifier, *workers)
	report, err := runner.Run(context.Background(), batch.Options{
		UserID:  *userID,
		DryRun:  *dryRun,
		Verbose: *verbose,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, ue := range report.Errors {
		log.Printf("user %s failed: %s", ue.UserID, ue.Message)
	}
}
