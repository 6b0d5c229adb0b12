package rewards

import (
	"context"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
)

// DefaultAmount is the coin reward for the QR, AR and AI demo activities.
// The quiz pays its computed final score instead.
const DefaultAmount = 50

// IdentitySource is the slice of the session store the ledger depends on.
type IdentitySource interface {
	Current() *models.Identity
	AwardCoins(ctx context.Context, feature models.Feature, amount int) (*models.Identity, error)
}

// Ledger runs the optimistic one-time reward claim protocol. The flag on the
// current identity snapshot is the only client-side idempotency shield:
// a claim for an already-true flag is a local no-op and must not reach the
// network. Retries are user-initiated; the ledger never retries by itself.
type Ledger struct {
	source IdentitySource
	log    *logger.Logger
}

// NewLedger creates a Ledger over the given identity source.
func NewLedger(source IdentitySource) *Ledger {
	return &Ledger{
		source: source,
		log:    logger.Default().WithPrefix("rewards"),
	}
}

// Result describes the outcome of a claim.
type Result struct {
	Feature        models.Feature
	AlreadyClaimed bool
	Coins          int // balance after the claim (or current balance for no-ops)
}

// Claim awards amount coins for completing feature. On success the session
// identity has already been replaced with the server's authoritative state.
// On failure the identity is untouched and the same claim can be retried.
func (l *Ledger) Claim(ctx context.Context, feature models.Feature, amount int) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("rewards").WithField("feature", feature)

	if !feature.Valid() {
		return nil, errors.NewValidationError("feature", "unknown feature")
	}
	if amount <= 0 {
		return nil, errors.NewValidationError("amount", "must be positive")
	}

	identity := l.source.Current()
	if identity == nil {
		return nil, errors.NewMissingIdentity()
	}
	if identity.Flag(feature) {
		log.Debug("reward already claimed, skipping network call")
		return &Result{Feature: feature, AlreadyClaimed: true, Coins: identity.Coins}, nil
	}

	updated, err := l.source.AwardCoins(ctx, feature, amount)
	if err != nil {
		log.Error("claim failed: %v", err)
		return nil, err
	}

	log.Info("reward claimed: +%d coins, balance=%d", amount, updated.Coins)
	return &Result{Feature: feature, Coins: updated.Coins}, nil
}
