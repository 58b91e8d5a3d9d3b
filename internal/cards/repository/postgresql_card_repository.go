// Package repository implements credit card and issuer persistence.
// Repositories support both PostgreSQL and MySQL. Sealed fields are stored as
// separate ciphertext and nonce columns per field so card number and CVV can
// be re-sealed independently.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// cardColumns is the full column list of the credit_cards table, in the scan
// order shared by every single-row query.
const cardColumns = `id, account_id, person_id, account_address_id, avs_address_id,
		avs_same_as_account, issuer_id, card_type, masked_card_number,
		card_number_ciphertext, card_number_nonce, cvv_ciphertext, cvv_nonce,
		expiration_month, expiration_year, status, nickname, created_at, created_by, updated_at`

// PostgreSQLCardRepository implements credit card persistence for PostgreSQL databases.
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// NewPostgreSQLCardRepository creates a new PostgreSQL credit card repository instance.
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{db: db}
}

// Create inserts a new credit card record into the PostgreSQL database.
func (p *PostgreSQLCardRepository) Create(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credit_cards (` + cardColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := querier.ExecContext(
		ctx,
		query,
		card.ID,
		card.AccountID,
		card.PersonID,
		card.AccountAddressID,
		card.AVSAddressID,
		card.AVSSameAsAccount,
		card.IssuerID,
		card.CardType,
		card.MaskedCardNumber,
		card.CardNumber.Ciphertext,
		card.CardNumber.Nonce,
		card.CVV.Ciphertext,
		card.CVV.Nonce,
		card.ExpirationMonth,
		card.ExpirationYear,
		card.Status,
		card.Nickname,
		card.CreatedAt,
		card.CreatedBy,
		card.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return cardsDomain.ErrNicknameTaken
		}
		return apperrors.Wrap(err, "failed to create credit card")
	}

	return nil
}

// Get retrieves a credit card record by its ID, including sealed fields.
func (p *PostgreSQLCardRepository) Get(
	ctx context.Context,
	cardID uuid.UUID,
) (*cardsDomain.CreditCardRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE id = $1`

	var card cardsDomain.CreditCardRecord
	err := querier.QueryRowContext(ctx, query, cardID).Scan(
		&card.ID,
		&card.AccountID,
		&card.PersonID,
		&card.AccountAddressID,
		&card.AVSAddressID,
		&card.AVSSameAsAccount,
		&card.IssuerID,
		&card.CardType,
		&card.MaskedCardNumber,
		&card.CardNumber.Ciphertext,
		&card.CardNumber.Nonce,
		&card.CVV.Ciphertext,
		&card.CVV.Nonce,
		&card.ExpirationMonth,
		&card.ExpirationYear,
		&card.Status,
		&card.Nickname,
		&card.CreatedAt,
		&card.CreatedBy,
		&card.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cardsDomain.ErrCardNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credit card")
	}

	return &card, nil
}

// List retrieves a page of credit card records without their sealed fields.
// Only masked numbers and metadata leave this query.
func (p *PostgreSQLCardRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*cardsDomain.CreditCardRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, account_id, person_id, issuer_id, card_type, masked_card_number,
					 expiration_month, expiration_year, status, nickname, created_at, created_by, updated_at
			  FROM credit_cards
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credit cards")
	}
	defer rows.Close()

	var cards []*cardsDomain.CreditCardRecord
	for rows.Next() {
		var card cardsDomain.CreditCardRecord
		err := rows.Scan(
			&card.ID,
			&card.AccountID,
			&card.PersonID,
			&card.IssuerID,
			&card.CardType,
			&card.MaskedCardNumber,
			&card.ExpirationMonth,
			&card.ExpirationYear,
			&card.Status,
			&card.Nickname,
			&card.CreatedAt,
			&card.CreatedBy,
			&card.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credit card")
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credit cards")
	}

	return cards, nil
}

// Update persists the full credit card record.
func (p *PostgreSQLCardRepository) Update(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credit_cards
			  SET account_id = $1, person_id = $2, account_address_id = $3, avs_address_id = $4,
				  avs_same_as_account = $5, issuer_id = $6, card_type = $7, masked_card_number = $8,
				  card_number_ciphertext = $9, card_number_nonce = $10, cvv_ciphertext = $11, cvv_nonce = $12,
				  expiration_month = $13, expiration_year = $14, status = $15, nickname = $16, updated_at = $17
			  WHERE id = $18`

	result, err := querier.ExecContext(
		ctx,
		query,
		card.AccountID,
		card.PersonID,
		card.AccountAddressID,
		card.AVSAddressID,
		card.AVSSameAsAccount,
		card.IssuerID,
		card.CardType,
		card.MaskedCardNumber,
		card.CardNumber.Ciphertext,
		card.CardNumber.Nonce,
		card.CVV.Ciphertext,
		card.CVV.Nonce,
		card.ExpirationMonth,
		card.ExpirationYear,
		card.Status,
		card.Nickname,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return cardsDomain.ErrNicknameTaken
		}
		return apperrors.Wrap(err, "failed to update credit card")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check updated credit card")
	}
	if affected == 0 {
		return cardsDomain.ErrCardNotFound
	}

	return nil
}

// UpdateStatus sets the status of every listed card.
// Returns the number of updated rows.
func (p *PostgreSQLCardRepository) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status cardsDomain.CardStatus,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	placeholders := make([]string, len(cardIDs))
	args := make([]any, 0, len(cardIDs)+2)
	args = append(args, status, now)
	for i, id := range cardIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE credit_cards SET status = $1, updated_at = $2 WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to update credit card statuses")
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count updated credit cards")
	}

	return updated, nil
}

// ListCardNumberCredentials loads the sealed card number of every record that
// is not deleted. This is the duplicate detector's scan set.
func (p *PostgreSQLCardRepository) ListCardNumberCredentials(
	ctx context.Context,
) ([]cardsDomain.CardNumberCredential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, card_number_ciphertext, card_number_nonce
			  FROM credit_cards
			  WHERE status != $1`

	rows, err := querier.QueryContext(ctx, query, cardsDomain.CardStatusDeleted)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list card number credentials")
	}
	defer rows.Close()

	var credentials []cardsDomain.CardNumberCredential
	for rows.Next() {
		var cred cardsDomain.CardNumberCredential
		if err := rows.Scan(&cred.ID, &cred.CardNumber.Ciphertext, &cred.CardNumber.Nonce); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card number credential")
		}
		credentials = append(credentials, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate card number credentials")
	}

	return credentials, nil
}

// CountNickname counts cards on the account carrying the nickname, excluding
// the given card id. Used for the per-account nickname uniqueness check.
func (p *PostgreSQLCardRepository) CountNickname(
	ctx context.Context,
	accountID, nickname string,
	excludeID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM credit_cards
			  WHERE account_id = $1 AND nickname = $2 AND id != $3`

	var count int64
	err := querier.QueryRowContext(ctx, query, accountID, nickname, excludeID).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count card nicknames")
	}

	return count, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
