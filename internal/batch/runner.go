// Package batch drives the analyze-and-intervene cycle across the user
// population. One user's failure never aborts the run; failures are
// collected into the report instead.
package batch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/oleandr/stride/internal/coach"
	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/insight"
	"github.com/oleandr/stride/internal/metrics"
	"github.com/oleandr/stride/internal/notify"
	"github.com/oleandr/stride/internal/record"
)

// Stores is everything a batch run needs from persistence.
type Stores interface {
	coach.RecordStore
	coach.GoalStore
	coach.StateStore
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
}

// Notifier hands emitted interventions to the delivery layer.
type Notifier interface {
	Enqueue(n *notify.Notification) error
}

// Options controls one run.
type Options struct {
	UserID  string // restrict the run to one user
	DryRun  bool   // compute everything, mutate and deliver nothing
	Verbose bool
}

type UserError struct {
	UserID  string `json:"user"`
	Message string `json:"message"`
}

type Report struct {
	Analyzed                int         `json:"analyzed"`
	SkippedInsufficientData int         `json:"skipped_insufficient_data"`
	InterventionsEmitted    int         `json:"interventions_emitted"`
	Errors                  []UserError `json:"errors"`
}

// Runner evaluates every active user with bounded parallelism. Snapshot
// computation is pure per user, so users are processed independently.
type Runner struct {
	cfg      config.Thresholds
	stores   Stores
	notifier Notifier
	workers  int
}

func NewRunner(cfg config.Thresholds, stores Stores, notifier Notifier, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		cfg:      cfg,
		stores:   stores,
		notifier: notifier,
		workers:  workers,
	}
}

func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	now := time.Now()

	var users []string
	if opts.UserID != "" {
		users = []string{opts.UserID}
	} else {
		activeSince := now.AddDate(0, 0, -r.cfg.RecentWindowDays)
		var err error
		users, err = r.stores.ActiveUsers(ctx, activeSince)
		if err != nil {
			return Report{}, err
		}
	}

	log.Printf("Analyzing %d users (dry-run: %v)", len(users), opts.DryRun)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
		sem    = make(chan struct{}, r.workers)
	)

	for _, userID := range users {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome, err := r.processUser(ctx, userID, now, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors = append(report.Errors, UserError{UserID: userID, Message: err.Error()})
				metrics.RecordBatchError()
				return
			}
			switch outcome {
			case outcomeSkipped:
				report.SkippedInsufficientData++
			case outcomeAnalyzed:
				report.Analyzed++
			case outcomeIntervened:
				report.Analyzed++
				report.InterventionsEmitted++
			}
		}(userID)
	}
	wg.Wait()

	log.Printf("Batch complete: %d analyzed, %d skipped, %d interventions, %d errors",
		report.Analyzed, report.SkippedInsufficientData, report.InterventionsEmitted, len(report.Errors))
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeAnalyzed
	outcomeIntervened
)

func (r *Runner) processUser(ctx context.Context, userID string, now time.Time, opts Options) (outcome, error) {
	cutoff := now.AddDate(0, 0, -r.cfg.WindowDays)
	records, err := r.stores.Query(ctx, userID, record.Filter{CreatedAfter: &cutoff})
	if err != nil {
		return 0, err
	}

	builder := insight.NewBuilder(r.cfg)
	start := time.Now()
	snap := builder.Build(records, now)
	metrics.RecordUserAnalyzed(string(snap.RiskLevel), time.Since(start))

	if snap.TasksAnalyzed < r.cfg.MinSample {
		metrics.RecordUserSkipped("insufficient_data")
		if opts.Verbose {
			log.Printf("  %s: insufficient data (%d tasks)", userID, snap.TasksAnalyzed)
		}
		return outcomeSkipped, nil
	}

	states := coach.StateStore(r.stores)
	if opts.DryRun {
		states = readOnlyStates{r.stores}
	}
	engine := coach.NewEngine(r.cfg, r.stores, r.stores, states)

	intervention, err := engine.Evaluate(ctx, userID, snap, now)
	if err != nil {
		return 0, err
	}

	if opts.Verbose {
		log.Printf("  %s: rate=%d%% risk=%s tasks=%d",
			userID, int(snap.CompletionRate*100), snap.RiskLevel, snap.TasksAnalyzed)
	}

	if intervention == nil {
		return outcomeAnalyzed, nil
	}

	metrics.RecordInterventionEmitted(string(intervention.Type), string(intervention.Severity))
	if opts.Verbose {
		log.Printf("  %s: intervention %s (%s)", userID, intervention.Type, intervention.Severity)
	}

	if !opts.DryRun && r.notifier != nil {
		n := notify.New(userID, string(intervention.Type), string(intervention.Severity),
			intervention.Title, intervention.Message)
		if err := r.notifier.Enqueue(n); err != nil {
			return 0, err
		}
	}

	return outcomeIntervened, nil
}

// readOnlyStates lets a dry run exercise the full policy path without
// committing the cooldown timestamp.
type readOnlyStates struct {
	inner coach.StateStore
}

func (s readOnlyStates) GetCoachState(ctx context.Context, userID string) (*coach.State, error) {
	return s.inner.GetCoachState(ctx, userID)
}

func (s readOnlyStates) SaveCoachState(context.Context, *coach.State) error {
	return nil
}
