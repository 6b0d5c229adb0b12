package session

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

// CredentialName is the key the manually pasted debug credential is stored
// under, mirroring the telegram:initData local-storage entry of the web app.
const CredentialName = "telegram:initData"

// CredentialResolver locates the signed Telegram init payload. Preference
// order: explicit override (flag or environment), then the stored debug
// credential. When neither exists login cannot proceed.
type CredentialResolver struct {
	override string
	repo     repository.CredentialRepository
	log      *logger.Logger
}

// NewCredentialResolver creates a resolver. override may be empty.
func NewCredentialResolver(override string, repo repository.CredentialRepository) *CredentialResolver {
	return &CredentialResolver{
		override: override,
		repo:     repo,
		log:      logger.Default().WithPrefix("credentials"),
	}
}

// Resolve returns the init payload or MISSING_CREDENTIAL.
func (r *CredentialResolver) Resolve(ctx context.Context) (string, error) {
	if r.override != "" {
		r.log.Debug("using init data override")
		return r.override, nil
	}
	if r.repo != nil {
		stored, err := r.repo.Get(ctx, CredentialName)
		if err != nil {
			r.log.Warn("failed to read stored credential: %v", err)
		} else if stored != "" {
			r.log.Debug("using stored debug credential")
			return stored, nil
		}
	}
	return "", errors.NewMissingCredential()
}

// AvatarFromInitData extracts the user's photo_url from a signed Telegram
// init payload. The payload is a URL-encoded query string whose "user" value
// is a JSON object. Used only for the opportunistic avatar merge after
// login, so every failure just yields an empty string.
func AvatarFromInitData(initData string) (string, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return "", err
	}
	rawUser := values.Get("user")
	if rawUser == "" {
		return "", nil
	}
	var user struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return "", err
	}
	return user.PhotoURL, nil
}
