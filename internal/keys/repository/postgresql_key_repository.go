// Package repository implements data persistence for ephemeral encryption keys.
// Repositories support both PostgreSQL and MySQL. The single-use guarantee is
// enforced with a conditional UPDATE so concurrent claims of the same key
// produce exactly one winner.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// PostgreSQLKeyRepository implements EphemeralKey persistence for PostgreSQL databases.
type PostgreSQLKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLKeyRepository creates a new PostgreSQL EphemeralKey repository instance.
func NewPostgreSQLKeyRepository(db *sql.DB) *PostgreSQLKeyRepository {
	return &PostgreSQLKeyRepository{db: db}
}

// Create inserts a new ephemeral key into the PostgreSQL database.
func (p *PostgreSQLKeyRepository) Create(ctx context.Context, key *keysDomain.EphemeralKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encryption_keys (id, owner_id, encrypted_key, nonce, created_at, expires_at, consumed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
		key.OwnerID,
		key.SealedKey.Ciphertext,
		key.SealedKey.Nonce,
		key.CreatedAt,
		key.ExpiresAt,
		key.ConsumedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create encryption key")
	}
	return nil
}

// Get retrieves an ephemeral key by its ID.
func (p *PostgreSQLKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*keysDomain.EphemeralKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, encrypted_key, nonce, created_at, expires_at, consumed_at
			  FROM encryption_keys
			  WHERE id = $1`

	var key keysDomain.EphemeralKey
	err := querier.QueryRowContext(ctx, query, keyID).Scan(
		&key.ID,
		&key.OwnerID,
		&key.SealedKey.Ciphertext,
		&key.SealedKey.Nonce,
		&key.CreatedAt,
		&key.ExpiresAt,
		&key.ConsumedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, keysDomain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get encryption key")
	}

	return &key, nil
}

// Consume atomically claims an ephemeral key for the given owner.
//
// The conditional UPDATE succeeds only when the key exists, belongs to the
// owner, has not been consumed, and has not expired. When it fails, the row is
// re-read to report the precise reason (not found, wrong owner, already used,
// or expired).
func (p *PostgreSQLKeyRepository) Consume(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	now time.Time,
) (*keysDomain.EphemeralKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE encryption_keys
			  SET consumed_at = $1
			  WHERE id = $2 AND owner_id = $3 AND consumed_at IS NULL AND expires_at > $1
			  RETURNING id, owner_id, encrypted_key, nonce, created_at, expires_at, consumed_at`

	var key keysDomain.EphemeralKey
	err := querier.QueryRowContext(ctx, query, now, keyID, ownerID).Scan(
		&key.ID,
		&key.OwnerID,
		&key.SealedKey.Ciphertext,
		&key.SealedKey.Nonce,
		&key.CreatedAt,
		&key.ExpiresAt,
		&key.ConsumedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, p.classifyClaimFailure(ctx, keyID, ownerID, now)
		}
		return nil, apperrors.Wrap(err, "failed to consume encryption key")
	}

	return &key, nil
}

// classifyClaimFailure re-reads the key row to explain why the claim failed.
func (p *PostgreSQLKeyRepository) classifyClaimFailure(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	now time.Time,
) error {
	key, err := p.Get(ctx, keyID)
	if err != nil {
		return err
	}

	switch {
	case key.OwnerID != ownerID:
		return keysDomain.ErrKeyAccessDenied
	case key.IsConsumed():
		return keysDomain.ErrKeyAlreadyUsed
	case key.IsExpired(now):
		return keysDomain.ErrKeyExpired
	default:
		// Lost a race that has since resolved; treat as already used.
		return keysDomain.ErrKeyAlreadyUsed
	}
}

// DeleteExpired removes keys whose validity window ended before the cutoff.
// Returns the number of deleted rows.
func (p *PostgreSQLKeyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM encryption_keys WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired encryption keys")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted encryption keys")
	}

	return deleted, nil
}
