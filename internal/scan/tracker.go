package scan

import (
	"sync"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// Tracker mirrors image-target visibility during an AR session: anchors
// report found/lost transitions, the overlay asks whether anything is on
// screen. Safe for concurrent use; the tracking runtime and the render loop
// live on different goroutines.
type Tracker struct {
	mu      sync.RWMutex
	visible map[int]bool
	log     *logger.Logger
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		visible: make(map[int]bool),
		log:     logger.Default().WithPrefix("ar"),
	}
}

// Found marks anchor index as visible.
func (t *Tracker) Found(index int) {
	t.mu.Lock()
	already := t.visible[index]
	t.visible[index] = true
	t.mu.Unlock()
	if !already {
		t.log.Debug("target %d found", index)
	}
}

// Lost marks anchor index as no longer visible.
func (t *Tracker) Lost(index int) {
	t.mu.Lock()
	was := t.visible[index]
	delete(t.visible, index)
	t.mu.Unlock()
	if was {
		t.log.Debug("target %d lost", index)
	}
}

// Visible reports whether anchor index is currently on screen.
func (t *Tracker) Visible(index int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visible[index]
}

// AnyVisible reports whether any anchor is currently on screen.
func (t *Tracker) AnyVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.visible) > 0
}
