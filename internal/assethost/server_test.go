package assethost

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBundleDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "libs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "targets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "libs", "three.min.js"), []byte("var THREE = {};"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "targets", "target.mind"), []byte{0x4d, 0x49, 0x4e, 0x44}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<!DOCTYPE html><html><body>app</body></html>"), 0o644))
	return root
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_ServesLibraryFiles(t *testing.T) {
	srv := New(":0", newBundleDir(t), false)
	rec := get(t, srv.Routes(), "/libs/three.min.js")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "var THREE = {};", rec.Body.String())
}

func TestServer_ServesTargetUnderBothPrefixes(t *testing.T) {
	srv := New(":0", newBundleDir(t), false)
	handler := srv.Routes()

	for _, path := range []string{"/targets/target.mind", "/target/target.mind"} {
		rec := get(t, handler, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, []byte{0x4d, 0x49, 0x4e, 0x44}, rec.Body.Bytes(), path)
	}
}

func TestServer_MissingFileIs404WithoutFallback(t *testing.T) {
	srv := New(":0", newBundleDir(t), false)
	rec := get(t, srv.Routes(), "/targets/missing.mind")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SpaFallbackServesIndexForAnything(t *testing.T) {
	srv := New(":0", newBundleDir(t), true)
	handler := srv.Routes()

	// The hazard the loader guards against: a missing binary asset comes
	// back as a healthy-looking HTML page.
	for _, path := range []string{"/targets/missing.mind", "/totally/unknown"} {
		rec := get(t, handler, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>", path)
	}
}

func TestServer_PathTraversalIsBlocked(t *testing.T) {
	root := newBundleDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("nope"), 0o644))

	srv := New(":0", root, false)
	rec := get(t, srv.Routes(), "/libs/../secret.txt")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := New(":0", newBundleDir(t), false)
	rec := get(t, srv.Routes(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
