package quiz

import (
	"sync"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop()
}

// Scheduler runs callbacks after a delay or on a fixed interval. Callbacks run
// on their own goroutine and must do their own locking.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the wall clock.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return afterTimer{time.AfterFunc(d, f)}
}

func (RealScheduler) Every(d time.Duration, f func()) Timer {
	t := &tickerTimer{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				f()
			}
		}
	}()
	return t
}

type afterTimer struct{ t *time.Timer }

func (a afterTimer) Stop() { a.t.Stop() }

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
