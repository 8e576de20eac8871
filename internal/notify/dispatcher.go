package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oleandr/stride/internal/metrics"
)

// Sender delivers one notification over one channel.
type Sender func(prefs Preferences, n *Notification) error

// PreferenceSource resolves a user's delivery preferences.
type PreferenceSource interface {
	NotificationPreferences(ctx context.Context, userID string) (Preferences, error)
}

// Dispatcher consumes the notification queue and fans out to the
// registered channel senders, deferring delivery during a user's quiet
// hours.
type Dispatcher struct {
	id           string
	queue        *Queue
	prefs        PreferenceSource
	senders      map[string]Sender
	stop         chan bool
	pollInterval time.Duration
}

func NewDispatcher(id string, q *Queue, prefs PreferenceSource) *Dispatcher {
	return &Dispatcher{
		id:           id,
		queue:        q,
		prefs:        prefs,
		senders:      make(map[string]Sender),
		stop:         make(chan bool),
		pollInterval: time.Second,
	}
}

func (d *Dispatcher) RegisterSender(channel string, sender Sender) {
	d.senders[channel] = sender
}

func (d *Dispatcher) SetPollInterval(interval time.Duration) {
	d.pollInterval = interval
}

func (d *Dispatcher) Start() {
	log.Printf("Dispatcher %s started", d.id)

	for {
		select {
		case <-d.stop:
			log.Printf("Dispatcher %s stopped", d.id)
			return
		default:
			n, err := d.queue.Dequeue()
			if err != nil || n == nil {
				time.Sleep(d.pollInterval)
				continue
			}

			d.dispatch(n)
		}
	}
}

// Dispatch delivers one notification immediately or defers it to the
// end of the user's quiet hours.
func (d *Dispatcher) dispatch(n *Notification) {
	now := time.Now()

	prefs, err := d.prefs.NotificationPreferences(context.Background(), n.UserID)
	if err != nil {
		log.Printf("Failed to load preferences for %s, dropping notification %s: %v", n.UserID, n.ID, err)
		metrics.RecordNotificationDropped(n.Kind, "preferences_unavailable")
		d.ack(n)
		return
	}

	if prefs.InQuietHours(now) {
		deferred := prefs.QuietHoursEnd(now)
		if err := d.queue.Requeue(n, deferred); err != nil {
			log.Printf("Failed to requeue notification %s: %v", n.ID, err)
		}
		metrics.RecordNotificationDeferred(n.Kind)
		return
	}

	delivered := false
	for channel, sender := range d.senders {
		if channel == "email" && !prefs.EmailEnabled {
			continue
		}
		if err := sender(prefs, n); err != nil {
			log.Printf("Failed to deliver notification %s via %s: %v", n.ID, channel, err)
			metrics.RecordNotificationFailed(n.Kind, channel)
			continue
		}
		delivered = true
		metrics.RecordNotificationDelivered(n.Kind, channel)
	}

	if !delivered {
		metrics.RecordNotificationDropped(n.Kind, "no_channel")
	}
	d.ack(n)
}

func (d *Dispatcher) ack(n *Notification) {
	if err := d.queue.Ack(n.ID); err != nil {
		log.Printf("Failed to ack notification %s: %v", n.ID, err)
	}
}

func (d *Dispatcher) Stop() {
	d.stop <- true
}

// DispatchOnce is the test seam for a single delivery attempt.
func (d *Dispatcher) DispatchOnce(n *Notification) error {
	if n == nil {
		return fmt.Errorf("nil notification")
	}
	d.dispatch(n)
	return nil
}
