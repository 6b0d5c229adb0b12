package scan

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
)

// RewardPrefix marks payloads that open a reward claim instead of a link.
const RewardPrefix = "qr-reward:"

// Kind classifies where a decoded payload leads.
type Kind int

const (
	KindInternalPath Kind = iota
	KindExternalURL
	KindReward
)

func (k Kind) String() string {
	switch k {
	case KindInternalPath:
		return "internal"
	case KindExternalURL:
		return "external"
	case KindReward:
		return "reward"
	default:
		return "unknown"
	}
}

// Navigation is the dispatch decision for one scanned payload.
type Navigation struct {
	ID      uuid.UUID
	Kind    Kind
	Target  string // internal path or external URL
	Feature models.Feature
	Raw     string
	Final   string // URL after redirect resolution, for URL payloads
}

// Dispatcher turns decoded payloads into navigation decisions. A payload is
// either an http(s) URL (resolved through its redirect chain, then split
// into in-app path versus external link by origin), a qr-reward:<feature>
// marker, or garbage that the scanner should ignore and keep scanning past.
type Dispatcher struct {
	origin   *url.URL
	resolver *RedirectResolver
	log      *logger.Logger
}

// NewDispatcher creates a Dispatcher. origin is the app's own base URL;
// resolved URLs on the same scheme and host become internal paths.
func NewDispatcher(origin string, resolver *RedirectResolver) (*Dispatcher, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, errors.NewValidationError("origin", err.Error())
	}
	return &Dispatcher{
		origin:   parsed,
		resolver: resolver,
		log:      logger.Default().WithPrefix("scan"),
	}, nil
}

// Dispatch classifies payload. Errors mean "not a usable code": callers are
// expected to resume scanning rather than abort.
func (d *Dispatcher) Dispatch(ctx context.Context, payload string) (*Navigation, error) {
	log := logger.FromContext(ctx).WithPrefix("scan")

	raw := strings.TrimSpace(payload)
	switch {
	case isHTTPURL(raw):
		final := raw
		if d.resolver != nil {
			final = d.resolver.Resolve(ctx, raw)
		}
		nav := &Navigation{ID: uuid.New(), Raw: raw, Final: final}

		target, err := url.Parse(final)
		if err != nil {
			// Unparseable after resolution; hand it over as-is.
			nav.Kind = KindExternalURL
			nav.Target = final
			return nav, nil
		}
		if sameOrigin(d.origin, target) {
			nav.Kind = KindInternalPath
			nav.Target = internalPath(target)
			log.Info("scan leads inside the app: %s", nav.Target)
		} else {
			nav.Kind = KindExternalURL
			nav.Target = final
			log.Info("scan leads to an external site: %s", target.Host)
		}
		return nav, nil

	case strings.HasPrefix(raw, RewardPrefix):
		feature := models.Feature(strings.TrimPrefix(raw, RewardPrefix))
		if !feature.Valid() {
			log.Warn("reward code names unknown feature %q", feature)
			return nil, errors.NewValidationError("feature", "unknown reward feature")
		}
		log.Info("scan is a reward code: %s", feature)
		return &Navigation{
			ID:      uuid.New(),
			Kind:    KindReward,
			Target:  "/qr-reward/" + string(feature),
			Feature: feature,
			Raw:     raw,
		}, nil

	default:
		return nil, errors.NewValidationError("payload", "unrecognized code format")
	}
}

// Usable reports whether a decoded payload can lead anywhere: an http(s)
// URL or a reward code naming a known feature. The scanner skips everything
// else without stopping the camera.
func Usable(payload string) bool {
	raw := strings.TrimSpace(payload)
	if isHTTPURL(raw) {
		return true
	}
	if strings.HasPrefix(raw, RewardPrefix) {
		return models.Feature(strings.TrimPrefix(raw, RewardPrefix)).Valid()
	}
	return false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

// internalPath keeps the path, query and fragment, defaulting to the root.
func internalPath(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		path += "#" + u.Fragment
	}
	return path
}
