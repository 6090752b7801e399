package service

import (
	"sync"

	"github.com/google/uuid"
)

// watcherHub fans submission outcomes out to stream subscribers. Channels
// are buffered; a subscriber that already went away never blocks a submit.
type watcherHub struct {
	mu       sync.Mutex
	watchers map[uuid.UUID][]chan *SubmitOutcome
}

func newWatcherHub() *watcherHub {
	return &watcherHub{watchers: make(map[uuid.UUID][]chan *SubmitOutcome)}
}

func (h *watcherHub) add(sessionID uuid.UUID) (<-chan *SubmitOutcome, func()) {
	ch := make(chan *SubmitOutcome, 1)

	h.mu.Lock()
	h.watchers[sessionID] = append(h.watchers[sessionID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		chans := h.watchers[sessionID]
		for i, c := range chans {
			if c == ch {
				h.watchers[sessionID] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		if len(h.watchers[sessionID]) == 0 {
			delete(h.watchers, sessionID)
		}
	}
	return ch, cancel
}

func (h *watcherHub) notify(sessionID uuid.UUID, outcome *SubmitOutcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.watchers[sessionID] {
		select {
		case ch <- outcome:
		default:
		}
	}
}
