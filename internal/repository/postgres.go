// Package repository provides PostgreSQL persistence for task records,
// goals, coach state and notification preferences.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/oleandr/stride/internal/coach"
	"github.com/oleandr/stride/internal/notify"
	"github.com/oleandr/stride/internal/record"
)

type Store struct {
	db *sql.DB
}

func NewStore(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

const recordColumns = `
	id, user_id, title, status, task_type, priority, energy_level,
	cognitive_load, scheduled_date, scheduled_time, created_at,
	completed_at, is_quick_win, blocked_by_deps`

// Query returns the user's records matching the filter, newest first
// unless the filter orders by scheduled date.
func (s *Store) Query(ctx context.Context, userID string, f record.Filter) ([]record.Record, error) {
	var sb strings.Builder
	sb.WriteString("SELECT" + recordColumns + " FROM task_records WHERE user_id = $1")
	args := []any{userID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CreatedAfter != nil {
		sb.WriteString(" AND created_at >= " + arg(*f.CreatedAfter))
	}
	if len(f.StatusIn) > 0 {
		statuses := make([]string, len(f.StatusIn))
		for i, st := range f.StatusIn {
			statuses[i] = string(st)
		}
		sb.WriteString(" AND status = ANY(" + arg(pq.Array(statuses)) + ")")
	}
	if f.ScheduledBefore != nil {
		sb.WriteString(" AND scheduled_date <= " + arg(*f.ScheduledBefore))
	}
	if f.ScheduledAfter != nil {
		sb.WriteString(" AND scheduled_date >= " + arg(*f.ScheduledAfter))
	}
	if f.Type != nil {
		sb.WriteString(" AND task_type = " + arg(string(*f.Type)))
	}
	if f.Priority != nil {
		sb.WriteString(" AND priority = " + arg(int(*f.Priority)))
	}
	if f.QuickWin != nil {
		sb.WriteString(" AND is_quick_win = " + arg(*f.QuickWin))
	}

	if f.OrderByScheduled {
		sb.WriteString(" ORDER BY scheduled_date ASC")
	} else {
		sb.WriteString(" ORDER BY created_at DESC")
	}
	if f.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(f.Limit))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var records []record.Record
	for rows.Next() {
		var r record.Record
		var scheduledTime, completedAt sql.NullTime
		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.Title,
			&r.Status,
			&r.Type,
			&r.Priority,
			&r.EnergyLevel,
			&r.CognitiveLoad,
			&r.ScheduledDate,
			&scheduledTime,
			&r.CreatedAt,
			&completedAt,
			&r.QuickWin,
			&r.BlockedByDeps,
		); err != nil {
			return nil, err
		}
		if scheduledTime.Valid {
			r.ScheduledTime = &scheduledTime.Time
		}
		if completedAt.Valid {
			r.CompletedAt = &completedAt.Time
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// updatableColumns guards UpdateFields and BulkUpdate against writes to
// columns the coach has no business touching.
var updatableColumns = map[string]bool{
	"scheduled_date": true,
	"status":         true,
	"priority":       true,
	"task_type":      true,
}

// UpdateFields applies targeted field changes to one record and reports
// whether the record still exists.
func (s *Store) UpdateFields(ctx context.Context, id, userID string, fields map[string]any) (bool, error) {
	set, args, err := buildSet(fields, 3)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("UPDATE task_records SET %s WHERE id = $1 AND user_id = $2", set)
	args = append([]any{id, userID}, args...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// BulkUpdate applies field changes to every listed record that still
// exists and returns the affected count.
func (s *Store) BulkUpdate(ctx context.Context, ids []string, userID string, fields map[string]any) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	set, args, err := buildSet(fields, 3)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("UPDATE task_records SET %s WHERE id = ANY($1) AND user_id = $2", set)
	args = append([]any{pq.Array(ids), userID}, args...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// buildSet renders the SET clause with placeholders starting at
// firstArg. Columns are sorted so the statement is deterministic.
func buildSet(fields map[string]any, firstArg int) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		if !updatableColumns[column] {
			return "", nil, fmt.Errorf("field %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		clauses[i] = fmt.Sprintf("%s = $%d", column, firstArg+i)
		args[i] = normalizeValue(fields[column])
	}

	return strings.Join(clauses, ", "), args, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case record.Status:
		return string(val)
	case record.Type:
		return string(val)
	case record.Priority:
		return int(val)
	default:
		return v
	}
}

// ActiveGoals returns the user's goals still marked active.
func (s *Store) ActiveGoals(ctx context.Context, userID string) ([]record.Goal, error) {
	query := `
		SELECT id, user_id, title, category, status
		FROM goals
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var goals []record.Goal
	for rows.Next() {
		var g record.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Category, &g.Status); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// ActiveUsers lists users with records created since the cutoff; these
// are the users a batch run analyzes.
func (s *Store) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT user_id
		FROM task_records
		WHERE created_at >= $1
		ORDER BY user_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}

	return users, rows.Err()
}

// GetCoachState loads the user's coach state, or nil when the coach has
// never intervened for this user.
func (s *Store) GetCoachState(ctx context.Context, userID string) (*coach.State, error) {
	query := `
		SELECT user_id, last_intervention_at, last_intervention_type, intervention_history
		FROM coach_state
		WHERE user_id = $1
	`
	var state coach.State
	var lastAt sql.NullTime
	var lastType sql.NullString
	var history []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&state.UserID, &lastAt, &lastType, &history)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastAt.Valid {
		state.LastInterventionAt = &lastAt.Time
	}
	if lastType.Valid {
		state.LastInterventionType = coach.Type(lastType.String)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &state.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intervention history: %w", err)
		}
	}

	return &state, nil
}

func (s *Store) SaveCoachState(ctx context.Context, state *coach.State) error {
	history, err := json.Marshal(state.History)
	if err != nil {
		return fmt.Errorf("failed to marshal intervention history: %w", err)
	}

	query := `
		INSERT INTO coach_state (user_id, last_intervention_at, last_intervention_type, intervention_history)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			last_intervention_at = EXCLUDED.last_intervention_at,
			last_intervention_type = EXCLUDED.last_intervention_type,
			intervention_history = EXCLUDED.intervention_history
	`
	var lastAt any
	if state.LastInterventionAt != nil {
		lastAt = *state.LastInterventionAt
	}

	_, err = s.db.ExecContext(ctx, query, state.UserID, lastAt, string(state.LastInterventionType), history)
	return err
}

// NotificationPreferences loads delivery preferences; users without a
// row get the defaults.
func (s *Store) NotificationPreferences(ctx context.Context, userID string) (notify.Preferences, error) {
	query := `
		SELECT email, email_enabled, quiet_enabled, quiet_start_hour, quiet_end_hour
		FROM notification_preferences
		WHERE user_id = $1
	`
	prefs := notify.DefaultPreferences(userID)
	var email sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&email,
		&prefs.EmailEnabled,
		&prefs.QuietEnabled,
		&prefs.QuietStartHour,
		&prefs.QuietEndHour,
	)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return prefs, err
	}

	if email.Valid {
		prefs.Email = email.String
	}
	return prefs, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
