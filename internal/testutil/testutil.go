package testutil

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavlentiyys/digitalFest/internal/db"
	"github.com/Pavlentiyys/digitalFest/internal/gateway"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}

// JSONResult builds a 200 gateway result carrying v marshaled as JSON.
func JSONResult(t *testing.T, v any) *gateway.Result {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &gateway.Result{Status: http.StatusOK, IsJSON: true, Body: body}
}
