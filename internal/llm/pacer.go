// ABOUTME: Request pacer enforcing a shared per-minute rate budget
// ABOUTME: Explicit object with injectable clock and sleep for testing
package llm

import (
	"log"
	"sync"
	"time"
)

// Pacer spaces out calls so steady-state throughput stays below the
// provider's rate ceiling without needing the provider's error signal.
// It is passed to every call site; there is no hidden package-level state.
type Pacer struct {
	minDelay time.Duration
	backoff  time.Duration
	last     time.Time
	mu       sync.Mutex

	// Injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer creates a pacer for the given requests-per-minute budget.
// backoff is a fixed increment added to every enforced wait.
func NewPacer(requestsPerMinute int, backoff time.Duration) *Pacer {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 50
	}
	return &Pacer{
		minDelay: time.Minute / time.Duration(requestsPerMinute),
		backoff:  backoff,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// SetClock overrides the time source and sleep function (for testing)
func (p *Pacer) SetClock(now func() time.Time, sleep func(time.Duration)) {
	p.now = now
	p.sleep = sleep
}

// Wait blocks until the rate budget allows another call, then records
// the call time. Safe for use from a single caller; the mutex guards
// against accidental sharing.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.now()
	if !p.last.IsZero() {
		elapsed := current.Sub(p.last)
		if elapsed < p.minDelay {
			wait := p.minDelay - elapsed + p.backoff
			log.Printf("[Pacer] rate limiting: sleeping for %s", wait)
			p.sleep(wait)
		}
	}
	p.last = p.now()
}
