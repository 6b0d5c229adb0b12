package repository

import (
	"context"

	"github.com/Pavlentiyys/digitalFest/internal/models"
)

// IdentityRepository persists the authenticated identity snapshot.
// There is at most one snapshot; saving replaces it, clearing removes it.
type IdentityRepository interface {
	// Load returns the stored identity, or (nil, nil) when none is stored
	// or the stored payload cannot be parsed.
	Load(ctx context.Context) (*models.Identity, error)
	Save(ctx context.Context, identity *models.Identity) error
	Clear(ctx context.Context) error
}

// CredentialRepository stores manually supplied Telegram init data for
// local debugging.
type CredentialRepository interface {
	// Get returns the stored credential, or "" when absent.
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, initData string) error
	Delete(ctx context.Context, name string) error
}

// StudentFilter narrows leaderboard cache reads.
type StudentFilter struct {
	Group string
	Limit int
}

// LeaderboardCache stores the last fetched leaderboard snapshot.
type LeaderboardCache interface {
	Replace(ctx context.Context, students []models.Student) error
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
}
