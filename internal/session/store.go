package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/gateway"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

// Store owns the authenticated identity and mirrors every change to the
// durable local store. Mutating operations are not serialized against each
// other: overlapping calls resolve last-write-wins, matching human-speed
// interaction with the remote API.
type Store struct {
	gw   gateway.ClientInterface
	repo repository.IdentityRepository
	log  *logger.Logger

	mu       sync.RWMutex
	identity *models.Identity
}

// NewStore creates a Store with no identity loaded.
func NewStore(gw gateway.ClientInterface, repo repository.IdentityRepository) *Store {
	return &Store{
		gw:   gw,
		repo: repo,
		log:  logger.Default().WithPrefix("session"),
	}
}

// Restore seeds the store from the persisted snapshot. A missing or corrupt
// snapshot leaves the store logged out; it never fails the caller.
func (s *Store) Restore(ctx context.Context) {
	identity, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn("failed to restore identity: %v", err)
		return
	}
	if identity == nil {
		s.log.Debug("no persisted identity to restore")
		return
	}
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	s.log.Info("restored identity: telegram_id=%s", identity.TelegramID)
}

// Current returns a copy of the stored identity, or nil when logged out.
func (s *Store) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// TelegramID returns the external account id used to authenticate calls,
// or "" when logged out.
func (s *Store) TelegramID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.TelegramID
}

type loginRequest struct {
	InitData string `json:"initData"`
	Group    string `json:"group"`
}

// Login exchanges a signed Telegram init payload and a group label for a
// full identity. 5xx responses surface as SERVICE_UNAVAILABLE, any other
// rejection passes the server's message through. After a successful login
// the identity is refreshed best-effort; refresh failures are discarded.
func (s *Store) Login(ctx context.Context, initData, group string) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("session")
	log.Info("logging in: group=%s", group)

	res, err := s.gw.Do(ctx, http.MethodPost, "/auth/telegram/login", loginRequest{InitData: initData, Group: group}, nil)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeHTTP {
			if appErr.Status >= 500 {
				return nil, errors.NewServiceUnavailable(appErr.Status)
			}
			return nil, errors.NewAuthRejected(appErr.Status, appErr.Message)
		}
		return nil, err
	}

	var identity models.Identity
	if !res.Decode(&identity) {
		return nil, errors.NewAuthRejected(res.Status, "login response was not a valid identity")
	}

	// Opportunistic avatar merge from the signed payload; never fatal.
	if identity.AvatarURL == "" {
		if avatar, err := AvatarFromInitData(initData); err == nil && avatar != "" {
			identity.AvatarURL = avatar
		}
	}

	s.replace(ctx, &identity)
	log.Info("logged in: telegram_id=%s, coins=%d", identity.TelegramID, identity.Coins)

	// Login already succeeded; a failed refresh must not undo it.
	_ = s.RefreshIdentity(ctx)

	return s.Current(), nil
}

// Logout clears the identity synchronously. It never calls the network.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn("failed to clear persisted identity: %v", err)
	}
	s.log.Info("logged out")
}

// profileResponse uses pointers so fields the server omitted can be told
// apart from empty strings and left untouched on the stored identity.
type profileResponse struct {
	Username *string `json:"username"`
	Group    *string `json:"group"`
}

// UpdateProfile changes the display name and group. Only those two fields
// are merged from the response; coins, flags and the avatar survive untouched.
func (s *Store) UpdateProfile(ctx context.Context, username, group string) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	id := s.TelegramID()
	if id == "" {
		return errors.NewMissingIdentity()
	}
	log.Info("updating profile: telegram_id=%s", id)

	payload := map[string]string{"username": username, "group": group}
	res, err := s.gw.Do(ctx, http.MethodPut, "/auth/"+url.PathEscape(id)+"/profile", payload, gateway.AuthHeaders(id, true))
	if err != nil {
		log.Error("profile update failed: %v", err)
		return errors.NewProfileUpdateError(err)
	}

	var resp profileResponse
	res.Decode(&resp)

	s.mu.Lock()
	if s.identity != nil {
		if resp.Username != nil {
			s.identity.Username = *resp.Username
		}
		if resp.Group != nil {
			s.identity.Group = *resp.Group
		}
	}
	updated := s.identity.Clone()
	s.mu.Unlock()

	s.persist(ctx, updated)
	log.Info("profile updated")
	return nil
}

type awardRequest struct {
	Coins   int            `json:"coins"`
	Feature models.Feature `json:"feature"`
}

// AwardCoins credits a one-time activity reward. On success the entire
// stored identity is replaced with the server's response: coin totals and
// flags are authoritative there, never computed locally.
func (s *Store) AwardCoins(ctx context.Context, feature models.Feature, amount int) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("session")

	if !feature.Valid() {
		return nil, errors.NewValidationError("feature", fmt.Sprintf("unknown feature %q", feature))
	}
	if amount <= 0 {
		return nil, errors.NewValidationError("coins", "must be positive")
	}
	id := s.TelegramID()
	if id == "" {
		return nil, errors.NewMissingIdentity()
	}
	log.Info("awarding coins: feature=%s, amount=%d", feature, amount)

	res, err := s.gw.Do(ctx, http.MethodPatch, "/auth/"+url.PathEscape(id)+"/coins", awardRequest{Coins: amount, Feature: feature}, gateway.AuthHeaders(id, true))
	if err != nil {
		log.Error("award failed: %v", err)
		return nil, errors.NewAwardError(err)
	}

	var identity models.Identity
	if !res.Decode(&identity) {
		return nil, errors.NewAwardError(fmt.Errorf("award response was not a valid identity"))
	}

	s.replace(ctx, &identity)
	log.Info("awarded: coins=%d, %s=%v", identity.Coins, feature, identity.Flag(feature))
	return s.Current(), nil
}

// RefreshIdentity re-reads the identity from the server. It is strictly
// best-effort: every failure leaves the stored identity unchanged, and
// callers are expected to discard the returned error.
func (s *Store) RefreshIdentity(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	id := s.TelegramID()
	if id == "" {
		return nil
	}

	res, err := s.gw.Do(ctx, http.MethodGet, "/auth/me/"+url.PathEscape(id), nil, gateway.AuthHeaders(id, false))
	if err != nil {
		log.Debug("identity refresh failed, keeping current state: %v", err)
		return err
	}

	var identity models.Identity
	if !res.Decode(&identity) {
		log.Debug("identity refresh returned a non-identity body, ignoring")
		return nil
	}

	s.replace(ctx, &identity)
	log.Debug("identity refreshed: coins=%d", identity.Coins)
	return nil
}

// replace swaps the whole identity and mirrors it to the local store.
func (s *Store) replace(ctx context.Context, identity *models.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	s.persist(ctx, identity.Clone())
}

func (s *Store) persist(ctx context.Context, identity *models.Identity) {
	if identity == nil {
		return
	}
	if err := s.repo.Save(ctx, identity); err != nil {
		s.log.Warn("failed to persist identity: %v", err)
	}
}
