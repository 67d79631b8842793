// Package notify carries user-facing outcomes (errors, confirmations, game
// results) from the controllers to whatever front-end renders them.
package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single toast-like message.
type Notification struct {
	ID      uuid.UUID
	Level   Level
	Title   string
	Message string
	Time    time.Time
}

// New stamps a notification with a fresh id and the current time.
func New(level Level, title, message string) Notification {
	return Notification{
		ID:      uuid.New(),
		Level:   level,
		Title:   title,
		Message: message,
		Time:    time.Now(),
	}
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Channel delivers notifications on a buffered channel. When the buffer is
// full the notification is dropped rather than stalling the sender.
type Channel struct {
	ch  chan Notification
	log *log.Logger
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(size int, l *log.Logger) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan Notification, size), log: l}
}

// Notify enqueues n without blocking.
func (c *Channel) Notify(n Notification) {
	select {
	case c.ch <- n:
	default:
		if c.log != nil {
			c.log.Warn("notification dropped", "title", n.Title)
		}
	}
}

// C returns the receive side of the channel.
func (c *Channel) C() <-chan Notification {
	return c.ch
}

// Recorder keeps every notification in memory. Handy in tests and for
// front-ends that render a history.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify appends n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
