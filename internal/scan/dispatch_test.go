package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/models"
)

const appOrigin = "https://fest.example"

func TestDispatcher_ClassifiesPayloads(t *testing.T) {
	d, err := NewDispatcher(appOrigin, nil)
	require.NoError(t, err)

	tests := []struct {
		name        string
		payload     string
		wantKind    Kind
		wantTarget  string
		wantFeature models.Feature
		wantErr     bool
	}{
		{
			name:       "internal url becomes a path",
			payload:    "https://fest.example/event?tab=quiz#top",
			wantKind:   KindInternalPath,
			wantTarget: "/event?tab=quiz#top",
		},
		{
			name:       "internal root defaults to slash",
			payload:    "https://fest.example",
			wantKind:   KindInternalPath,
			wantTarget: "/",
		},
		{
			name:       "external url stays a url",
			payload:    "https://other.example/page",
			wantKind:   KindExternalURL,
			wantTarget: "https://other.example/page",
		},
		{
			name:       "same host different scheme is external",
			payload:    "http://fest.example/event",
			wantKind:   KindExternalURL,
			wantTarget: "http://fest.example/event",
		},
		{
			name:        "reward code",
			payload:     "qr-reward:isAr",
			wantKind:    KindReward,
			wantTarget:  "/qr-reward/isAr",
			wantFeature: models.FeatureAr,
		},
		{
			name:       "surrounding whitespace is trimmed",
			payload:    "  https://fest.example/event  ",
			wantKind:   KindInternalPath,
			wantTarget: "/event",
		},
		{name: "unknown reward feature", payload: "qr-reward:isFamous", wantErr: true},
		{name: "plain text", payload: "hello", wantErr: true},
		{name: "non-http scheme", payload: "ftp://fest.example/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := d.Dispatch(context.Background(), tt.payload)
			if tt.wantErr {
				assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, nav.Kind)
			assert.Equal(t, tt.wantTarget, nav.Target)
			assert.Equal(t, tt.wantFeature, nav.Feature)
			assert.NotEqual(t, [16]byte{}, [16]byte(nav.ID))
		})
	}
}

func TestDispatcher_ResolvesRedirectsBeforeClassifying(t *testing.T) {
	var final *httptest.Server
	final = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()

	shortener := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/landing", http.StatusFound)
	}))
	defer shortener.Close()

	// The app lives where the shortener points, so the scan ends up internal
	// even though the QR code held a foreign-looking short link.
	d, err := NewDispatcher(final.URL, NewRedirectResolver())
	require.NoError(t, err)

	nav, err := d.Dispatch(context.Background(), shortener.URL+"/abc")
	require.NoError(t, err)
	assert.Equal(t, KindInternalPath, nav.Kind)
	assert.Equal(t, "/landing", nav.Target)
	assert.Equal(t, final.URL+"/landing", nav.Final)
}

func TestRedirectResolver_Resolve(t *testing.T) {
	// Host that rejects HEAD but redirects GET.
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/short" {
			http.Redirect(w, r, "/long", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	resolver := NewRedirectResolver()

	// A 405 still resolves the URL: the response's final URL is what counts.
	got := resolver.Resolve(context.Background(), target.URL+"/short")
	assert.Equal(t, target.URL+"/short", got)

	// Unreachable hosts keep the original string.
	got = resolver.Resolve(context.Background(), "http://127.0.0.1:1/nope")
	assert.Equal(t, "http://127.0.0.1:1/nope", got)
}

func TestUsable(t *testing.T) {
	assert.True(t, Usable("https://anywhere.example"))
	assert.True(t, Usable("qr-reward:isQuiz"))
	assert.False(t, Usable("qr-reward:isNothing"))
	assert.False(t, Usable("just text"))
}
