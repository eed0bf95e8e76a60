package dashboard

import (
	"context"
	"sync"
	"time"
)

// SearchDelay is the quiet period before a search runs.
const SearchDelay = 300 * time.Millisecond

// Debouncer runs the most recent call once no newer call has arrived for the
// delay. A newer call supersedes a pending one.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops any pending call and ignores later ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// LiveSearch reads queries until the channel closes or ctx ends and emits
// the results of a query once typing pauses. When queries closes, the last
// query is emitted right away if its debounced run has not happened yet.
func (s *Store) LiveSearch(ctx context.Context, queries <-chan string, delay time.Duration, emit func(q string, users []User)) {
	d := NewDebouncer(delay)
	defer d.Stop()

	var (
		mu      sync.Mutex
		last    string
		pending bool
	)
	run := func(q string) {
		mu.Lock()
		defer mu.Unlock()
		if q != last || !pending {
			return
		}
		pending = false
		emit(q, s.Search(q))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case q, ok := <-queries:
			if !ok {
				d.Stop()
				mu.Lock()
				q := last
				mu.Unlock()
				run(q)
				return
			}
			mu.Lock()
			last, pending = q, true
			mu.Unlock()
			d.Call(func() { run(q) })
		}
	}
}
