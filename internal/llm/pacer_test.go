// ABOUTME: Tests for the request pacer using an injected fake clock
// ABOUTME: Verifies first-call pass-through and enforced spacing with backoff
package llm

import (
	"testing"
	"time"
)

// fakeClock records sleeps and advances a virtual now
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
}

func newPacedClock(p *Pacer) *fakeClock {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	p.SetClock(clock.now, clock.sleep)
	return clock
}

func TestPacerFirstCallDoesNotSleep(t *testing.T) {
	p := NewPacer(60, 0)
	clock := newPacedClock(p)

	p.Wait()

	if len(clock.slept) != 0 {
		t.Errorf("first call slept %v, want no sleep", clock.slept)
	}
}

func TestPacerEnforcesSpacing(t *testing.T) {
	// 60 rpm → 1s minimum spacing, plus 250ms fixed backoff
	p := NewPacer(60, 250*time.Millisecond)
	clock := newPacedClock(p)

	p.Wait()
	clock.current = clock.current.Add(400 * time.Millisecond)
	p.Wait()

	if len(clock.slept) != 1 {
		t.Fatalf("got %d sleeps, want 1", len(clock.slept))
	}
	want := 600*time.Millisecond + 250*time.Millisecond
	if clock.slept[0] != want {
		t.Errorf("slept %v, want %v", clock.slept[0], want)
	}
}

func TestPacerSkipsSleepAfterLongGap(t *testing.T) {
	p := NewPacer(60, 250*time.Millisecond)
	clock := newPacedClock(p)

	p.Wait()
	clock.current = clock.current.Add(5 * time.Second)
	p.Wait()

	if len(clock.slept) != 0 {
		t.Errorf("slept %v after long gap, want no sleep", clock.slept)
	}
}

func TestPacerDefaultsRate(t *testing.T) {
	p := NewPacer(0, 0)
	if p.minDelay != time.Minute/50 {
		t.Errorf("got minDelay %v, want %v", p.minDelay, time.Minute/50)
	}
}
