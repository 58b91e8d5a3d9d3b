package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// PostgreSQLIssuerRepository implements card issuer persistence for PostgreSQL databases.
type PostgreSQLIssuerRepository struct {
	db *sql.DB
}

// NewPostgreSQLIssuerRepository creates a new PostgreSQL issuer repository instance.
func NewPostgreSQLIssuerRepository(db *sql.DB) *PostgreSQLIssuerRepository {
	return &PostgreSQLIssuerRepository{db: db}
}

// Create inserts a new card issuer into the PostgreSQL database.
func (p *PostgreSQLIssuerRepository) Create(ctx context.Context, issuer *cardsDomain.Issuer) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credit_card_issuers (id, label, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, issuer.ID, issuer.Label, issuer.CreatedAt)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return cardsDomain.ErrIssuerLabelTaken
		}
		return apperrors.Wrap(err, "failed to create card issuer")
	}

	return nil
}

// Get retrieves a card issuer by its ID.
func (p *PostgreSQLIssuerRepository) Get(
	ctx context.Context,
	issuerID uuid.UUID,
) (*cardsDomain.Issuer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, label, created_at FROM credit_card_issuers WHERE id = $1`

	var issuer cardsDomain.Issuer
	err := querier.QueryRowContext(ctx, query, issuerID).Scan(&issuer.ID, &issuer.Label, &issuer.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cardsDomain.ErrIssuerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card issuer")
	}

	return &issuer, nil
}

// List retrieves every card issuer ordered by label.
func (p *PostgreSQLIssuerRepository) List(ctx context.Context) ([]*cardsDomain.Issuer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, label, created_at FROM credit_card_issuers ORDER BY label`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list card issuers")
	}
	defer rows.Close()

	var issuers []*cardsDomain.Issuer
	for rows.Next() {
		var issuer cardsDomain.Issuer
		if err := rows.Scan(&issuer.ID, &issuer.Label, &issuer.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card issuer")
		}
		issuers = append(issuers, &issuer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate card issuers")
	}

	return issuers, nil
}
