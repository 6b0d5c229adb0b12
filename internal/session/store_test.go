package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/repository/sqlite"
	"github.com/Pavlentiyys/digitalFest/internal/testutil"
	"github.com/Pavlentiyys/digitalFest/internal/testutil/mocks"
)

func baseIdentity() models.Identity {
	return models.Identity{
		SubjectID:  "abc",
		TelegramID: "42",
		Username:   "alice",
		Group:      "SE-101",
		Coins:      10,
		AvatarURL:  "https://t.me/a.jpg",
	}
}

func newStore(t *testing.T, gw *mocks.MockGateway) *Store {
	t.Helper()

	db := testutil.NewTestDB(t)
	return NewStore(gw, sqlite.NewIdentityRepository(db.DB))
}

func TestStore_LoginStoresAndPersistsIdentity(t *testing.T) {
	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login",
		loginRequest{InitData: "init", Group: "SE-101"}, map[string]string(nil)).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()
	// Post-login refresh; its failure must be invisible to the caller.
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(nil, apperrors.NewHTTPError(500, "")).Once()

	db := testutil.NewTestDB(t)
	repo := sqlite.NewIdentityRepository(db.DB)
	store := NewStore(gw, repo)

	identity, err := store.Login(context.Background(), "init", "SE-101")
	require.NoError(t, err)
	assert.Equal(t, "42", identity.TelegramID)
	assert.Equal(t, 10, identity.Coins)

	// A fresh store restores the same identity from the local snapshot.
	second := NewStore(gw, repo)
	second.Restore(context.Background())
	restored := second.Current()
	require.NotNil(t, restored)
	assert.Equal(t, "alice", restored.Username)
	gw.AssertExpectations(t)
}

func TestStore_LoginClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "5xx becomes service unavailable",
			err:      apperrors.NewHTTPError(503, "upstream down"),
			wantCode: apperrors.ErrCodeServiceUnavailable,
		},
		{
			name:     "4xx passes the server message through",
			err:      apperrors.NewHTTPError(403, "group is required"),
			wantCode: apperrors.ErrCodeAuthRejected,
			wantMsg:  "group is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(mocks.MockGateway)
			gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
				Return(nil, tt.err).Once()

			store := newStore(t, gw)
			_, err := store.Login(context.Background(), "init", "SE-101")

			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, appErr.Message)
			}
			assert.Nil(t, store.Current())
		})
	}
}

func TestStore_LoginMergesAvatarFromInitData(t *testing.T) {
	identity := baseIdentity()
	identity.AvatarURL = ""

	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
		Return(testutil.JSONResult(t, identity), nil).Once()
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(nil, apperrors.NewHTTPError(500, "")).Once()

	store := newStore(t, gw)
	initData := "auth_date=1&user=%7B%22photo_url%22%3A%22https%3A%2F%2Fcdn%2Fme.jpg%22%7D"
	got, err := store.Login(context.Background(), initData, "SE-101")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/me.jpg", got.AvatarURL)
}

func TestStore_UpdateProfileTouchesOnlyNameAndGroup(t *testing.T) {
	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(nil, apperrors.NewHTTPError(500, "")).Once()

	// The server echoes the new profile and nothing else; a buggy merge
	// would wipe coins and the avatar.
	gw.On("Do", mock.Anything, "PUT", "/auth/42/profile",
		map[string]string{"username": "bob", "group": "SE-102"},
		map[string]string{"telegram-id": "42", "Authorization": "42"}).
		Return(testutil.JSONResult(t, map[string]string{"username": "bob", "group": "SE-102"}), nil).Once()

	store := newStore(t, gw)
	_, err := store.Login(context.Background(), "init", "SE-101")
	require.NoError(t, err)

	require.NoError(t, store.UpdateProfile(context.Background(), "bob", "SE-102"))

	current := store.Current()
	assert.Equal(t, "bob", current.Username)
	assert.Equal(t, "SE-102", current.Group)
	assert.Equal(t, 10, current.Coins)
	assert.Equal(t, "https://t.me/a.jpg", current.AvatarURL)
	gw.AssertExpectations(t)
}

func TestStore_UpdateProfileRequiresIdentity(t *testing.T) {
	store := newStore(t, new(mocks.MockGateway))
	err := store.UpdateProfile(context.Background(), "bob", "SE-102")
	assert.Equal(t, apperrors.ErrCodeMissingIdentity, apperrors.CodeOf(err))
}

func TestStore_AwardCoinsReplacesWholeIdentity(t *testing.T) {
	awarded := baseIdentity()
	awarded.Coins = 60
	awarded.IsAr = true

	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(nil, apperrors.NewHTTPError(500, "")).Once()
	gw.On("Do", mock.Anything, "PATCH", "/auth/42/coins",
		awardRequest{Coins: 50, Feature: models.FeatureAr},
		map[string]string{"telegram-id": "42", "Authorization": "42"}).
		Return(testutil.JSONResult(t, awarded), nil).Once()

	store := newStore(t, gw)
	_, err := store.Login(context.Background(), "init", "SE-101")
	require.NoError(t, err)

	updated, err := store.AwardCoins(context.Background(), models.FeatureAr, 50)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Coins)
	assert.True(t, updated.IsAr)
	gw.AssertExpectations(t)
}

func TestStore_AwardCoinsValidation(t *testing.T) {
	store := newStore(t, new(mocks.MockGateway))

	_, err := store.AwardCoins(context.Background(), "isBogus", 50)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	_, err = store.AwardCoins(context.Background(), models.FeatureAr, 0)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestStore_RefreshFailureLeavesStateUntouched(t *testing.T) {
	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(nil, apperrors.NewHTTPError(500, "")).Twice()

	store := newStore(t, gw)
	_, err := store.Login(context.Background(), "init", "SE-101")
	require.NoError(t, err)

	_ = store.RefreshIdentity(context.Background())
	current := store.Current()
	require.NotNil(t, current)
	assert.Equal(t, 10, current.Coins)
}

func TestStore_LogoutClearsMemoryAndDisk(t *testing.T) {
	gw := new(mocks.MockGateway)
	gw.On("Do", mock.Anything, "POST", "/auth/telegram/login", mock.Anything, mock.Anything).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()
	gw.On("Do", mock.Anything, "GET", "/auth/me/42", nil, mock.Anything).
		Return(testutil.JSONResult(t, baseIdentity()), nil).Once()

	db := testutil.NewTestDB(t)
	repo := sqlite.NewIdentityRepository(db.DB)
	store := NewStore(gw, repo)

	_, err := store.Login(context.Background(), "init", "SE-101")
	require.NoError(t, err)

	store.Logout(context.Background())
	assert.Nil(t, store.Current())
	assert.Empty(t, store.TelegramID())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
