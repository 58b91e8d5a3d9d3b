package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// MySQLIssuerRepository implements card issuer persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLIssuerRepository struct {
	db *sql.DB
}

// NewMySQLIssuerRepository creates a new MySQL issuer repository instance.
func NewMySQLIssuerRepository(db *sql.DB) *MySQLIssuerRepository {
	return &MySQLIssuerRepository{db: db}
}

// Create inserts a new card issuer into the MySQL database.
func (m *MySQLIssuerRepository) Create(ctx context.Context, issuer *cardsDomain.Issuer) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credit_card_issuers (id, label, created_at) VALUES (?, ?, ?)`

	id, err := marshalUUID(issuer.ID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, id, issuer.Label, issuer.CreatedAt)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return cardsDomain.ErrIssuerLabelTaken
		}
		return apperrors.Wrap(err, "failed to create card issuer")
	}

	return nil
}

// Get retrieves a card issuer by its ID.
func (m *MySQLIssuerRepository) Get(
	ctx context.Context,
	issuerID uuid.UUID,
) (*cardsDomain.Issuer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, label, created_at FROM credit_card_issuers WHERE id = ?`

	id, err := marshalUUID(issuerID)
	if err != nil {
		return nil, err
	}

	var issuer cardsDomain.Issuer
	var rawID []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(&rawID, &issuer.Label, &issuer.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cardsDomain.ErrIssuerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card issuer")
	}

	issuer.ID, err = uuid.FromBytes(rawID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal issuer id")
	}

	return &issuer, nil
}

// List retrieves every card issuer ordered by label.
func (m *MySQLIssuerRepository) List(ctx context.Context) ([]*cardsDomain.Issuer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, label, created_at FROM credit_card_issuers ORDER BY label`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list card issuers")
	}
	defer rows.Close()

	var issuers []*cardsDomain.Issuer
	for rows.Next() {
		var issuer cardsDomain.Issuer
		var rawID []byte
		if err := rows.Scan(&rawID, &issuer.Label, &issuer.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card issuer")
		}
		issuer.ID, err = uuid.FromBytes(rawID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal issuer id")
		}
		issuers = append(issuers, &issuer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate card issuers")
	}

	return issuers, nil
}
