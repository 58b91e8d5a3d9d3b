package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// MySQLCardRepository implements credit card persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLCardRepository struct {
	db *sql.DB
}

// NewMySQLCardRepository creates a new MySQL credit card repository instance.
func NewMySQLCardRepository(db *sql.DB) *MySQLCardRepository {
	return &MySQLCardRepository{db: db}
}

// marshalUUID converts a UUID into its BINARY(16) column form.
func marshalUUID(id uuid.UUID) ([]byte, error) {
	raw, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal uuid")
	}
	return raw, nil
}

// marshalOptionalUUID converts a nullable UUID into its column form.
func marshalOptionalUUID(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	return marshalUUID(*id)
}

// Create inserts a new credit card record into the MySQL database.
func (m *MySQLCardRepository) Create(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credit_cards (` + cardColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := marshalUUID(card.ID)
	if err != nil {
		return err
	}
	issuerID, err := marshalOptionalUUID(card.IssuerID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		card.AccountID,
		card.PersonID,
		card.AccountAddressID,
		card.AVSAddressID,
		card.AVSSameAsAccount,
		issuerID,
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
		if isMySQLUniqueViolation(err) {
			return cardsDomain.ErrNicknameTaken
		}
		return apperrors.Wrap(err, "failed to create credit card")
	}

	return nil
}

// Get retrieves a credit card record by its ID, including sealed fields.
func (m *MySQLCardRepository) Get(
	ctx context.Context,
	cardID uuid.UUID,
) (*cardsDomain.CreditCardRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + cardColumns + ` FROM credit_cards WHERE id = ?`

	id, err := marshalUUID(cardID)
	if err != nil {
		return nil, err
	}

	var card cardsDomain.CreditCardRecord
	var rawID, rawIssuerID []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&card.AccountID,
		&card.PersonID,
		&card.AccountAddressID,
		&card.AVSAddressID,
		&card.AVSSameAsAccount,
		&rawIssuerID,
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

	if err := unmarshalCardUUIDs(&card, rawID, rawIssuerID); err != nil {
		return nil, err
	}

	return &card, nil
}

// unmarshalCardUUIDs converts BINARY(16) columns back into UUID fields.
func unmarshalCardUUIDs(card *cardsDomain.CreditCardRecord, rawID, rawIssuerID []byte) error {
	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return apperrors.Wrap(err, "failed to unmarshal card id")
	}
	card.ID = id

	if rawIssuerID != nil {
		issuerID, err := uuid.FromBytes(rawIssuerID)
		if err != nil {
			return apperrors.Wrap(err, "failed to unmarshal issuer id")
		}
		card.IssuerID = &issuerID
	}

	return nil
}

// List retrieves a page of credit card records without their sealed fields.
func (m *MySQLCardRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*cardsDomain.CreditCardRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, account_id, person_id, issuer_id, card_type, masked_card_number,
					 expiration_month, expiration_year, status, nickname, created_at, created_by, updated_at
			  FROM credit_cards
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credit cards")
	}
	defer rows.Close()

	var cards []*cardsDomain.CreditCardRecord
	for rows.Next() {
		var card cardsDomain.CreditCardRecord
		var rawID, rawIssuerID []byte
		err := rows.Scan(
			&rawID,
			&card.AccountID,
			&card.PersonID,
			&rawIssuerID,
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
		if err := unmarshalCardUUIDs(&card, rawID, rawIssuerID); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credit cards")
	}

	return cards, nil
}

// Update persists the full credit card record.
func (m *MySQLCardRepository) Update(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credit_cards
			  SET account_id = ?, person_id = ?, account_address_id = ?, avs_address_id = ?,
				  avs_same_as_account = ?, issuer_id = ?, card_type = ?, masked_card_number = ?,
				  card_number_ciphertext = ?, card_number_nonce = ?, cvv_ciphertext = ?, cvv_nonce = ?,
				  expiration_month = ?, expiration_year = ?, status = ?, nickname = ?, updated_at = ?
			  WHERE id = ?`

	id, err := marshalUUID(card.ID)
	if err != nil {
		return err
	}
	issuerID, err := marshalOptionalUUID(card.IssuerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		card.AccountID,
		card.PersonID,
		card.AccountAddressID,
		card.AVSAddressID,
		card.AVSSameAsAccount,
		issuerID,
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
		id,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
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
func (m *MySQLCardRepository) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status cardsDomain.CardStatus,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	placeholders := make([]string, len(cardIDs))
	args := make([]any, 0, len(cardIDs)+2)
	args = append(args, status, now)
	for i, cardID := range cardIDs {
		id, err := marshalUUID(cardID)
		if err != nil {
			return 0, err
		}
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := `UPDATE credit_cards SET status = ?, updated_at = ? WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

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
// is not deleted.
func (m *MySQLCardRepository) ListCardNumberCredentials(
	ctx context.Context,
) ([]cardsDomain.CardNumberCredential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, card_number_ciphertext, card_number_nonce
			  FROM credit_cards
			  WHERE status != ?`

	rows, err := querier.QueryContext(ctx, query, cardsDomain.CardStatusDeleted)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list card number credentials")
	}
	defer rows.Close()

	var credentials []cardsDomain.CardNumberCredential
	for rows.Next() {
		var cred cardsDomain.CardNumberCredential
		var rawID []byte
		if err := rows.Scan(&rawID, &cred.CardNumber.Ciphertext, &cred.CardNumber.Nonce); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card number credential")
		}
		id, err := uuid.FromBytes(rawID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal card id")
		}
		cred.ID = id
		credentials = append(credentials, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate card number credentials")
	}

	return credentials, nil
}

// CountNickname counts cards on the account carrying the nickname, excluding
// the given card id.
func (m *MySQLCardRepository) CountNickname(
	ctx context.Context,
	accountID, nickname string,
	excludeID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM credit_cards
			  WHERE account_id = ? AND nickname = ? AND id != ?`

	id, err := marshalUUID(excludeID)
	if err != nil {
		return 0, err
	}

	var count int64
	err = querier.QueryRowContext(ctx, query, accountID, nickname, id).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count card nicknames")
	}

	return count, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
