// Package notify hands emitted interventions to the user. It holds a
// Redis-backed notification queue, a dispatcher worker that honors
// per-user quiet hours, and the delivery channels. Delivery outcome is
// advisory; the coaching engine is indifferent to it.
package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	DeliverAt time.Time `json:"deliver_at"`
}

func New(userID, kind, severity, title, body string) *Notification {
	now := time.Now()
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Severity:  severity,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		DeliverAt: now,
	}
}

func (n *Notification) ToJSON() (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", err
	}

	return string(data), err
}

func FromJSON(data string) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, err
	}

	return &n, nil
}

// severityRank orders delivery when notifications fall due together.
func severityRank(severity string) int {
	switch severity {
	case "critical":
		return 3
	case "high":
		return 2
	case "medium":
		return 1
	default:
		return 0
	}
}

// Preferences controls whether and when a user is contacted.
type Preferences struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	EmailEnabled   bool   `json:"email_enabled"`
	QuietEnabled   bool   `json:"quiet_enabled"`
	QuietStartHour int    `json:"quiet_start_hour"`
	QuietEndHour   int    `json:"quiet_end_hour"`
}

func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:       userID,
		EmailEnabled: true,
	}
}

// InQuietHours reports whether now falls inside the user's quiet
// window. A window like 22-8 wraps past midnight.
func (p Preferences) InQuietHours(now time.Time) bool {
	if !p.QuietEnabled || p.QuietStartHour == p.QuietEndHour {
		return false
	}

	hour := now.Hour()
	if p.QuietStartHour < p.QuietEndHour {
		return hour >= p.QuietStartHour && hour < p.QuietEndHour
	}
	return hour >= p.QuietStartHour || hour < p.QuietEndHour
}

// QuietHoursEnd returns the next moment the quiet window closes.
func (p Preferences) QuietHoursEnd(now time.Time) time.Time {
	end := time.Date(now.Year(), now.Month(), now.Day(), p.QuietEndHour, 0, 0, 0, now.Location())
	if !end.After(now) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}
