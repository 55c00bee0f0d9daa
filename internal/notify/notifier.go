// Package notify carries transient user-facing notifications: order
// submission results, status updates, validation messages. Producers
// never block: when nobody is draining the stream, the oldest entries
// are dropped.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

// Notification is one transient message shown to the guest.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier fans notifications into a bounded stream.
type Notifier struct {
	mu sync.Mutex
	ch chan Notification
}

func New() *Notifier {
	return &Notifier{ch: make(chan Notification, 32)}
}

// Publish enqueues a notification, evicting the oldest one when the
// stream is full.
func (n *Notifier) Publish(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	note := Notification{Level: level, Message: message, At: time.Now()}
	for {
		select {
		case n.ch <- note:
			return
		default:
			select {
			case <-n.ch:
			default:
			}
		}
	}
}

// C is the stream of notifications for the UI loop to drain.
func (n *Notifier) C() <-chan Notification {
	return n.ch
}
