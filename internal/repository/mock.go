package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oleandr/stride/internal/coach"
	"github.com/oleandr/stride/internal/notify"
	"github.com/oleandr/stride/internal/record"
)

// MockStore is an in-memory stand-in for Store used across the engine,
// batch and API tests. It applies the same filter semantics as the SQL
// implementation and tracks calls for assertions.
type MockStore struct {
	mu sync.Mutex

	Records map[string]*record.Record
	Goals   map[string][]record.Goal
	States  map[string]*coach.State
	Prefs   map[string]notify.Preferences

	QueryCalls      []record.Filter
	UpdateCalls     []UpdateCall
	BulkUpdateCalls []BulkUpdateCall
	StateSaves      int

	QueryError      error
	UpdateError     error
	BulkUpdateError error
	GetStateError   error
	SaveStateError  error
	GoalsError      error
	UsersError      error
	PrefsError      error
}

type UpdateCall struct {
	RecordID string
	UserID   string
	Fields   map[string]any
}

type BulkUpdateCall struct {
	RecordIDs []string
	UserID    string
	Fields    map[string]any
}

func NewMockStore() *MockStore {
	return &MockStore{
		Records: make(map[string]*record.Record),
		Goals:   make(map[string][]record.Goal),
		States:  make(map[string]*coach.State),
		Prefs:   make(map[string]notify.Preferences),
	}
}

func (m *MockStore) AddRecord(r record.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := r
	m.Records[r.ID] = &copied
}

func (m *MockStore) Query(_ context.Context, userID string, f record.Filter) ([]record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCalls = append(m.QueryCalls, f)
	if m.QueryError != nil {
		return nil, m.QueryError
	}

	var matched []record.Record
	for _, r := range m.Records {
		if r.UserID != userID || !matchesFilter(*r, f) {
			continue
		}
		matched = append(matched, *r)
	}

	if f.OrderByScheduled {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].ScheduledDate.Before(matched[j].ScheduledDate)
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func matchesFilter(r record.Record, f record.Filter) bool {
	if f.CreatedAfter != nil && r.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if len(f.StatusIn) > 0 {
		found := false
		for _, st := range f.StatusIn {
			if r.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ScheduledBefore != nil && r.ScheduledDate.After(*f.ScheduledBefore) {
		return false
	}
	if f.ScheduledAfter != nil && r.ScheduledDate.Before(*f.ScheduledAfter) {
		return false
	}
	if f.Type != nil && r.Type != *f.Type {
		return false
	}
	if f.Priority != nil && r.Priority != *f.Priority {
		return false
	}
	if f.QuickWin != nil && r.QuickWin != *f.QuickWin {
		return false
	}
	return true
}

func (m *MockStore) UpdateFields(_ context.Context, id, userID string, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{RecordID: id, UserID: userID, Fields: fields})
	if m.UpdateError != nil {
		return false, m.UpdateError
	}

	r, ok := m.Records[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	applyFields(r, fields)
	return true, nil
}

func (m *MockStore) BulkUpdate(_ context.Context, ids []string, userID string, fields map[string]any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BulkUpdateCalls = append(m.BulkUpdateCalls, BulkUpdateCall{RecordIDs: ids, UserID: userID, Fields: fields})
	if m.BulkUpdateError != nil {
		return 0, m.BulkUpdateError
	}

	count := 0
	for _, id := range ids {
		r, ok := m.Records[id]
		if !ok || r.UserID != userID {
			continue
		}
		applyFields(r, fields)
		count++
	}
	return count, nil
}

func applyFields(r *record.Record, fields map[string]any) {
	for field, value := range fields {
		switch field {
		case "scheduled_date":
			if d, ok := value.(time.Time); ok {
				r.ScheduledDate = d
			}
		case "status":
			if s, ok := value.(record.Status); ok {
				r.Status = s
			}
		case "priority":
			if p, ok := value.(record.Priority); ok {
				r.Priority = p
			}
		case "task_type":
			if t, ok := value.(record.Type); ok {
				r.Type = t
			}
		}
	}
}

func (m *MockStore) ActiveGoals(_ context.Context, userID string) ([]record.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GoalsError != nil {
		return nil, m.GoalsError
	}
	return m.Goals[userID], nil
}

func (m *MockStore) ActiveUsers(_ context.Context, since time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UsersError != nil {
		return nil, m.UsersError
	}

	seen := make(map[string]bool)
	var users []string
	for _, r := range m.Records {
		if r.CreatedAt.Before(since) || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		users = append(users, r.UserID)
	}
	sort.Strings(users)
	return users, nil
}

func (m *MockStore) GetCoachState(_ context.Context, userID string) (*coach.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStateError != nil {
		return nil, m.GetStateError
	}
	state, ok := m.States[userID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (m *MockStore) SaveCoachState(_ context.Context, state *coach.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveStateError != nil {
		return m.SaveStateError
	}
	m.StateSaves++
	copied := *state
	m.States[state.UserID] = &copied
	return nil
}

func (m *MockStore) NotificationPreferences(_ context.Context, userID string) (notify.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PrefsError != nil {
		return notify.DefaultPreferences(userID), m.PrefsError
	}
	if prefs, ok := m.Prefs[userID]; ok {
		return prefs, nil
	}
	return notify.DefaultPreferences(userID), nil
}
