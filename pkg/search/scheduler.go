package search

import "time"

// Timer is a pending debounce.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock schedules on real timers.
var WallClock Scheduler = wallClock{}

func stopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
