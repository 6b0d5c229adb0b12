package scan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource plays back a fixed frame sequence and records when it was
// stopped relative to the frames it served.
type scriptedSource struct {
	mu      sync.Mutex
	frames  []string
	served  int
	stopped bool
	stopsAt int // number of frames served when Stop was first called
}

func (s *scriptedSource) NextFrame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.served >= len(s.frames) {
		return nil, context.DeadlineExceeded
	}
	frame := s.frames[s.served]
	s.served++
	return []byte(frame), nil
}

func (s *scriptedSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		s.stopsAt = s.served
	}
}

// literalDecoder treats any non-empty frame as its own payload.
type literalDecoder struct{}

func (literalDecoder) Decode(frame []byte) (string, bool) {
	return string(frame), len(frame) > 0
}

func newTestScanner(t *testing.T, frames ...string) (*Scanner, *scriptedSource) {
	t.Helper()

	d, err := NewDispatcher(appOrigin, nil)
	require.NoError(t, err)
	source := &scriptedSource{frames: frames}
	return NewScanner(source, literalDecoder{}, d, WithInterval(time.Millisecond)), source
}

func TestScanner_SkipsEmptyAndUnusableFrames(t *testing.T) {
	scanner, source := newTestScanner(t, "", "not a code", "qr-reward:isAr")

	nav, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindReward, nav.Kind)

	// The camera survived the two useless frames and stopped only for the
	// real one.
	assert.True(t, source.stopped)
	assert.Equal(t, 3, source.stopsAt)
}

func TestScanner_StopsSourceBeforeReturningNavigation(t *testing.T) {
	scanner, source := newTestScanner(t, "https://fest.example/event")

	nav, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindInternalPath, nav.Kind)
	assert.Equal(t, "/event", nav.Target)
	assert.True(t, source.stopped)
}

func TestScanner_CancelStopsScanning(t *testing.T) {
	d, err := NewDispatcher(appOrigin, nil)
	require.NoError(t, err)

	// A source that never produces a usable frame.
	source := &scriptedSource{frames: make([]string, 10000)}
	scanner := NewScanner(source, literalDecoder{}, d, WithInterval(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = scanner.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, source.stopped)
}

func TestTracker_VisibilityLifecycle(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.AnyVisible())

	tr.Found(0)
	assert.True(t, tr.Visible(0))
	assert.True(t, tr.AnyVisible())

	tr.Found(1)
	tr.Lost(0)
	assert.False(t, tr.Visible(0))
	assert.True(t, tr.AnyVisible())

	tr.Lost(1)
	assert.False(t, tr.AnyVisible())

	// Losing an unknown target is harmless.
	tr.Lost(7)
	assert.False(t, tr.AnyVisible())
}
