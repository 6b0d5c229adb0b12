package scan

import (
	"context"
	"time"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// DefaultInterval throttles frame decoding to roughly 12.5 frames per
// second; decoding every camera frame burns battery for no extra hits.
const DefaultInterval = 80 * time.Millisecond

// FrameSource produces camera frames and must be stopped when scanning
// ends. Stop is called before the navigation is returned, so the camera is
// released before any handoff happens.
type FrameSource interface {
	NextFrame(ctx context.Context) ([]byte, error)
	Stop()
}

// Decoder extracts a payload from one frame. ok is false when the frame
// holds no recognizable code.
type Decoder interface {
	Decode(frame []byte) (payload string, ok bool)
}

// Scanner runs the decode loop: throttled frames, transient rejection of
// unusable codes, and a single navigation decision on the first usable one.
type Scanner struct {
	source     FrameSource
	decoder    Decoder
	dispatcher *Dispatcher
	interval   time.Duration
	log        *logger.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval overrides the decode throttle.
func WithInterval(interval time.Duration) Option {
	return func(s *Scanner) { s.interval = interval }
}

// NewScanner creates a Scanner.
func NewScanner(source FrameSource, decoder Decoder, dispatcher *Dispatcher, opts ...Option) *Scanner {
	s := &Scanner{
		source:     source,
		decoder:    decoder,
		dispatcher: dispatcher,
		interval:   DefaultInterval,
		log:        logger.Default().WithPrefix("scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans until a usable code is found or ctx is cancelled. Unusable
// codes (wrong format, unknown reward feature) are logged and scanning
// continues; the frame source is stopped before the navigation is handed
// back.
func (s *Scanner) Run(ctx context.Context) (*Navigation, error) {
	log := logger.FromContext(ctx).WithPrefix("scan")
	log.Info("scanning started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.source.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scanning cancelled")
			return nil, ctx.Err()
		case <-ticker.C:
		}

		frame, err := s.source.NextFrame(ctx)
		if err != nil {
			log.Error("frame source failed: %v", err)
			return nil, err
		}

		payload, ok := s.decoder.Decode(frame)
		if !ok {
			continue
		}
		if !Usable(payload) {
			log.Warn("ignoring unusable code: %q", payload)
			continue
		}

		// Release the camera before redirect resolution and navigation.
		s.source.Stop()

		nav, err := s.dispatcher.Dispatch(ctx, payload)
		if err != nil {
			return nil, err
		}
		log.Info("scan complete: kind=%s, target=%s", nav.Kind, nav.Target)
		return nav, nil
	}
}
