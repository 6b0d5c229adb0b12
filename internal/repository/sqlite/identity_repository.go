package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

type identityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates a new IdentityRepository implementation
func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Load(ctx context.Context) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")
	log.Debug("loading identity snapshot")

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM identity_snapshot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no identity stored")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load identity snapshot: %v", err)
		return nil, err
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		// Corrupt snapshot is treated as "no identity", never as a failure.
		log.Warn("discarding unparseable identity snapshot: %v", err)
		return nil, nil
	}
	log.Debug("identity loaded: telegram_id=%s", identity.TelegramID)
	return &identity, nil
}

func (r *identityRepository) Save(ctx context.Context, identity *models.Identity) error {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")
	log.Debug("saving identity snapshot: telegram_id=%s", identity.TelegramID)

	payload, err := json.Marshal(identity)
	if err != nil {
		log.Error("failed to marshal identity: %v", err)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO identity_snapshot (id, payload, updated_at)
VALUES (1, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
`, string(payload))
	if err != nil {
		log.Error("failed to save identity snapshot: %v", err)
	}
	return err
}

func (r *identityRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")
	log.Debug("clearing identity snapshot")

	_, err := r.db.ExecContext(ctx, `DELETE FROM identity_snapshot WHERE id = 1`)
	if err != nil {
		log.Error("failed to clear identity snapshot: %v", err)
	}
	return err
}
