package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

type credentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new CredentialRepository implementation
func NewCredentialRepository(db *sql.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Get(ctx context.Context, name string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("credential_repo")
	log.Debug("loading credential: name=%s", name)

	var initData string
	err := r.db.QueryRowContext(ctx, `SELECT init_data FROM debug_credentials WHERE name = ?`, name).Scan(&initData)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		log.Error("failed to load credential: %v", err)
		return "", err
	}
	return initData, nil
}

func (r *credentialRepository) Set(ctx context.Context, name, initData string) error {
	log := logger.FromContext(ctx).WithPrefix("credential_repo")
	log.Debug("storing credential: name=%s", name)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO debug_credentials (name, init_data, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET init_data = excluded.init_data, updated_at = excluded.updated_at
`, name, initData)
	if err != nil {
		log.Error("failed to store credential: %v", err)
	}
	return err
}

func (r *credentialRepository) Delete(ctx context.Context, name string) error {
	log := logger.FromContext(ctx).WithPrefix("credential_repo")
	log.Debug("deleting credential: name=%s", name)

	_, err := r.db.ExecContext(ctx, `DELETE FROM debug_credentials WHERE name = ?`, name)
	if err != nil {
		log.Error("failed to delete credential: %v", err)
	}
	return err
}
