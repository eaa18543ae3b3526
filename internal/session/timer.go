package session

import (
	"sync"
	"time"
)

// Timer is a tick source owned by a running session.
// C is closed once Stop has been called.
type Timer interface {
	C() <-chan time.Time
	Stop()
}

// TimerFactory creates a tick source firing every interval
type TimerFactory func(interval time.Duration) Timer

// Clock supplies the current time. Readings must carry a monotonic component.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ticker forwards a time.Ticker into a channel that closes on Stop,
// so goroutines blocked on C never outlive the session.
type ticker struct {
	t    *time.Ticker
	out  chan time.Time
	done chan struct{}
	once sync.Once
}

// NewTicker is the default TimerFactory
func NewTicker(interval time.Duration) Timer {
	tk := &ticker{
		t:    time.NewTicker(interval),
		out:  make(chan time.Time),
		done: make(chan struct{}),
	}
	go tk.run()
	return tk
}

func (tk *ticker) run() {
	defer close(tk.out)
	defer tk.t.Stop()
	for {
		select {
		case <-tk.done:
			return
		case now := <-tk.t.C:
			select {
			case tk.out <- now:
			case <-tk.done:
				return
			}
		}
	}
}

func (tk *ticker) C() <-chan time.Time { return tk.out }

func (tk *ticker) Stop() {
	tk.once.Do(func() { close(tk.done) })
}
