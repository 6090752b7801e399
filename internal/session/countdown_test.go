package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/google/uuid"
)

func TestCountdownTickDecrements(t *testing.T) {
	c := NewCountdown(3, func() {})

	if c.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", c.Remaining())
	}
	if expired := c.tick(); expired {
		t.Fatalf("tick expired at remaining=2")
	}
	if c.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", c.Remaining())
	}
	c.tick()
	if expired := c.tick(); !expired {
		t.Errorf("third tick should expire the countdown")
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", c.Remaining())
	}
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	var fired int32
	c := NewCountdown(1, func() { atomic.AddInt32(&fired, 1) })
	c.Start()

	time.Sleep(2500 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("expiry fired %d times, want 1", n)
	}
}

func TestCountdownCancelPreventsExpiry(t *testing.T) {
	var fired int32
	c := NewCountdown(1, func() { atomic.AddInt32(&fired, 1) })
	c.Start()
	c.Cancel()

	time.Sleep(1500 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("expiry fired %d times after cancel, want 0", n)
	}
	// Repeated cancel is a no-op.
	c.Cancel()
}

func TestRegistryTakeIsExactlyOnce(t *testing.T) {
	reg := NewRegistry()
	entry := NewEntry(uuid.New(), 1, nil, []model.Question{{ID: 1, CorrectAnswer: "A"}})
	reg.Put(entry)

	// Manual submit and timer expiry racing for the same session: only one
	// caller may win the Take, no matter how tight the window.
	const racers = 16
	var wins int32
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			if _, ok := reg.Take(entry.ID); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Take won %d times, want exactly 1", wins)
	}
	if reg.Len() != 0 {
		t.Errorf("registry should be empty after take")
	}
}

func TestEntryAnswerFlow(t *testing.T) {
	questions := []model.Question{
		{ID: 10, CorrectAnswer: "A"},
		{ID: 20, CorrectAnswer: "B"},
	}
	entry := NewEntry(uuid.New(), 7, nil, questions)

	entry.SelectAnswer(10, "A")
	entry.JumpTo(1)
	entry.SelectAnswer(20, "C")

	snap := entry.Snapshot()
	if len(snap) != 2 || snap[10] != "A" || snap[20] != "C" {
		t.Errorf("snapshot = %v", snap)
	}
	if entry.Index() != 1 {
		t.Errorf("index = %d, want 1", entry.Index())
	}
	if entry.Remaining() != nil {
		t.Errorf("untimed session must report nil remaining time")
	}
}
