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

// MySQLKeyRepository implements EphemeralKey persistence for MySQL databases.
//
// UUIDs are stored as BINARY(16). MySQL has no UPDATE ... RETURNING, so Consume
// performs the conditional UPDATE and re-reads the row inside the caller's
// transaction.
type MySQLKeyRepository struct {
	db *sql.DB
}

// NewMySQLKeyRepository creates a new MySQL EphemeralKey repository instance.
func NewMySQLKeyRepository(db *sql.DB) *MySQLKeyRepository {
	return &MySQLKeyRepository{db: db}
}

// Create inserts a new ephemeral key into the MySQL database.
func (m *MySQLKeyRepository) Create(ctx context.Context, key *keysDomain.EphemeralKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO encryption_keys (id, owner_id, encrypted_key, nonce, created_at, expires_at, consumed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal key id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*keysDomain.EphemeralKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, encrypted_key, nonce, created_at, expires_at, consumed_at
			  FROM encryption_keys
			  WHERE id = ?`

	id, err := keyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal key id")
	}

	var key keysDomain.EphemeralKey
	var rawID []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	key.ID, err = uuid.FromBytes(rawID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal key id")
	}

	return &key, nil
}

// Consume atomically claims an ephemeral key for the given owner.
//
// The conditional UPDATE succeeds only when the key exists, belongs to the
// owner, has not been consumed, and has not expired. When zero rows are
// affected, the row is re-read to report the precise reason.
func (m *MySQLKeyRepository) Consume(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	now time.Time,
) (*keysDomain.EphemeralKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE encryption_keys
			  SET consumed_at = ?
			  WHERE id = ? AND owner_id = ? AND consumed_at IS NULL AND expires_at > ?`

	id, err := keyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal key id")
	}

	result, err := querier.ExecContext(ctx, query, now, id, ownerID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to consume encryption key")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check consumed encryption key")
	}
	if affected == 0 {
		return nil, m.classifyClaimFailure(ctx, keyID, ownerID, now)
	}

	return m.Get(ctx, keyID)
}

// classifyClaimFailure re-reads the key row to explain why the claim failed.
func (m *MySQLKeyRepository) classifyClaimFailure(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	now time.Time,
) error {
	key, err := m.Get(ctx, keyID)
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
func (m *MySQLKeyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM encryption_keys WHERE expires_at < ?`

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
