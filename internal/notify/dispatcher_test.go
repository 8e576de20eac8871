package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrefs struct {
	prefs Preferences
	err   error
}

func (s stubPrefs) NotificationPreferences(_ context.Context, _ string) (Preferences, error) {
	return s.prefs, s.err
}

func TestDispatcherDelivers(t *testing.T) {
	q := setupQueue(t)
	prefs := stubPrefs{prefs: Preferences{
		UserID:       "user-1",
		Email:        "user@example.com",
		EmailEnabled: true,
	}}

	var sent []*Notification
	d := NewDispatcher("dispatcher-test", q, prefs)
	d.RegisterSender("email", func(p Preferences, n *Notification) error {
		assert.Equal(t, "user@example.com", p.Email)
		sent = append(sent, n)
		return nil
	})

	n := dueNotification("user-1", "high")
	require.NoError(t, q.Enqueue(n))
	got, err := q.Dequeue()
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, d.DispatchOnce(got))
	require.Len(t, sent, 1)
	assert.Equal(t, n.ID, sent[0].ID)

	depth, err := q.Depth()
	require.NoError(t, err)
	assert.Zero(t, depth, "delivered notification leaves the queue")
}

func TestDispatcherSkipsDisabledEmail(t *testing.T) {
	q := setupQueue(t)
	prefs := stubPrefs{prefs: Preferences{UserID: "user-1", EmailEnabled: false}}

	called := false
	d := NewDispatcher("dispatcher-test", q, prefs)
	d.RegisterSender("email", func(Preferences, *Notification) error {
		called = true
		return nil
	})

	require.NoError(t, d.DispatchOnce(dueNotification("user-1", "high")))
	assert.False(t, called, "opted-out channels are never invoked")
}

func TestDispatcherDefersDuringQuietHours(t *testing.T) {
	q := setupQueue(t)
	prefs := stubPrefs{prefs: Preferences{
		UserID:       "user-1",
		EmailEnabled: true,
		QuietEnabled: true,
		// The whole day minus one hour; the current hour is always
		// quiet regardless of when the test runs.
		QuietStartHour: (time.Now().Hour() + 23) % 24,
		QuietEndHour:   (time.Now().Hour() + 22) % 24,
	}}

	called := false
	d := NewDispatcher("dispatcher-test", q, prefs)
	d.RegisterSender("email", func(Preferences, *Notification) error {
		called = true
		return nil
	})

	n := dueNotification("user-1", "high")
	require.NoError(t, d.DispatchOnce(n))

	assert.False(t, called, "quiet hours suppress delivery")
	depth, err := q.Depth()
	require.NoError(t, err)
	assert.Equal(t, 1, depth, "deferred notification goes back on the queue")

	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Nil(t, got, "deferred notification is not due yet")
}

func TestDispatcherDropsOnPreferenceFailure(t *testing.T) {
	q := setupQueue(t)
	prefs := stubPrefs{err: errors.New("connection refused")}

	called := false
	d := NewDispatcher("dispatcher-test", q, prefs)
	d.RegisterSender("email", func(Preferences, *Notification) error {
		called = true
		return nil
	})

	require.NoError(t, d.DispatchOnce(dueNotification("user-1", "high")))

	assert.False(t, called)
	depth, err := q.Depth()
	require.NoError(t, err)
	assert.Zero(t, depth, "undeliverable notification is dropped, not retried")
}

func TestDispatcherContinuesPastSenderFailure(t *testing.T) {
	q := setupQueue(t)
	prefs := stubPrefs{prefs: Preferences{UserID: "user-1", EmailEnabled: true}}

	delivered := false
	d := NewDispatcher("dispatcher-test", q, prefs)
	d.RegisterSender("email", func(Preferences, *Notification) error {
		return errors.New("smtp unavailable")
	})
	d.RegisterSender("webhook", func(Preferences, *Notification) error {
		delivered = true
		return nil
	})

	require.NoError(t, d.DispatchOnce(dueNotification("user-1", "high")))
	assert.True(t, delivered, "one failing channel does not block the others")
}

func TestDispatcherNilNotification(t *testing.T) {
	q := setupQueue(t)
	d := NewDispatcher("dispatcher-test", q, stubPrefs{})
	require.Error(t, d.DispatchOnce(nil))
}
