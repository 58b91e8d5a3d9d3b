package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
)

var cardColumnList = []string{
	"id", "account_id", "person_id", "account_address_id", "avs_address_id",
	"avs_same_as_account", "issuer_id", "card_type", "masked_card_number",
	"card_number_ciphertext", "card_number_nonce", "cvv_ciphertext", "cvv_nonce",
	"expiration_month", "expiration_year", "status", "nickname", "created_at", "created_by", "updated_at",
}

func newTestCard() *cardsDomain.CreditCardRecord {
	now := time.Now().UTC()
	accountID := "account-123"
	nickname := "main card"
	return &cardsDomain.CreditCardRecord{
		ID:               uuid.Must(uuid.NewV7()),
		AccountID:        &accountID,
		AVSSameAsAccount: true,
		CardType:         "Visa",
		MaskedCardNumber: "************1111",
		CardNumber: cryptoDomain.EncryptedField{
			Ciphertext: []byte("sealed-card-number"),
			Nonce:      []byte("number-nonce"),
		},
		CVV: cryptoDomain.EncryptedField{
			Ciphertext: []byte("sealed-cvv"),
			Nonce:      []byte("cvv-nonce"),
		},
		ExpirationMonth: 12,
		ExpirationYear:  2030,
		Status:          cardsDomain.CardStatusActive,
		Nickname:        &nickname,
		CreatedAt:       now,
		CreatedBy:       "operator-1",
		UpdatedAt:       now,
	}
}

func cardRow(card *cardsDomain.CreditCardRecord) *sqlmock.Rows {
	return sqlmock.NewRows(cardColumnList).AddRow(
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
}

func TestPostgreSQLCardRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	card := newTestCard()

	mock.ExpectExec("INSERT INTO credit_cards").
		WithArgs(
			card.ID,
			card.AccountID,
			nil,
			nil,
			nil,
			card.AVSSameAsAccount,
			nil,
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
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLCardRepository(db)
	err = repo.Create(context.Background(), card)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCardRepository_Get(t *testing.T) {
	t.Run("returns card with sealed fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		card := newTestCard()
		mock.ExpectQuery("SELECT (.+) FROM credit_cards").
			WithArgs(card.ID).
			WillReturnRows(cardRow(card))

		repo := NewPostgreSQLCardRepository(db)
		got, err := repo.Get(context.Background(), card.ID)

		require.NoError(t, err)
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, card.CardNumber, got.CardNumber)
		assert.Equal(t, card.CVV, got.CVV)
		assert.Equal(t, card.MaskedCardNumber, got.MaskedCardNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrCardNotFound for missing card", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		cardID := uuid.Must(uuid.NewV7())
		mock.ExpectQuery("SELECT (.+) FROM credit_cards").
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows(cardColumnList))

		repo := NewPostgreSQLCardRepository(db)
		got, err := repo.Get(context.Background(), cardID)

		assert.ErrorIs(t, err, cardsDomain.ErrCardNotFound)
		assert.Nil(t, got)
	})
}

func TestPostgreSQLCardRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	card := newTestCard()
	listColumns := []string{
		"id", "account_id", "person_id", "issuer_id", "card_type", "masked_card_number",
		"expiration_month", "expiration_year", "status", "nickname", "created_at", "created_by", "updated_at",
	}
	rows := sqlmock.NewRows(listColumns).AddRow(
		card.ID,
		card.AccountID,
		card.PersonID,
		card.IssuerID,
		card.CardType,
		card.MaskedCardNumber,
		card.ExpirationMonth,
		card.ExpirationYear,
		card.Status,
		card.Nickname,
		card.CreatedAt,
		card.CreatedBy,
		card.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM credit_cards").
		WithArgs(0, 50).
		WillReturnRows(rows)

	repo := NewPostgreSQLCardRepository(db)
	cards, err := repo.List(context.Background(), 0, 50)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card.MaskedCardNumber, cards[0].MaskedCardNumber)
	// Sealed fields never leave the list query.
	assert.True(t, cards[0].CardNumber.IsZero())
	assert.True(t, cards[0].CVV.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCardRepository_Update(t *testing.T) {
	t.Run("updates an existing card", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		card := newTestCard()
		mock.ExpectExec("UPDATE credit_cards").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLCardRepository(db)
		err = repo.Update(context.Background(), card)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrCardNotFound when no rows match", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		card := newTestCard()
		mock.ExpectExec("UPDATE credit_cards").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLCardRepository(db)
		err = repo.Update(context.Background(), card)

		assert.ErrorIs(t, err, cardsDomain.ErrCardNotFound)
	})
}

func TestPostgreSQLCardRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ids := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE credit_cards").
		WithArgs(cardsDomain.CardStatusDeleted, now, ids[0], ids[1]).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewPostgreSQLCardRepository(db)
	updated, err := repo.UpdateStatus(context.Background(), ids, cardsDomain.CardStatusDeleted, now)

	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCardRepository_ListCardNumberCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	card := newTestCard()
	rows := sqlmock.NewRows([]string{"id", "card_number_ciphertext", "card_number_nonce"}).
		AddRow(card.ID, card.CardNumber.Ciphertext, card.CardNumber.Nonce)

	mock.ExpectQuery("SELECT (.+) FROM credit_cards").
		WithArgs(cardsDomain.CardStatusDeleted).
		WillReturnRows(rows)

	repo := NewPostgreSQLCardRepository(db)
	credentials, err := repo.ListCardNumberCredentials(context.Background())

	require.NoError(t, err)
	require.Len(t, credentials, 1)
	assert.Equal(t, card.ID, credentials[0].ID)
	assert.Equal(t, card.CardNumber, credentials[0].CardNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCardRepository_CountNickname(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	excludeID := uuid.Must(uuid.NewV7())
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("account-123", "main card", excludeID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewPostgreSQLCardRepository(db)
	count, err := repo.CountNickname(context.Background(), "account-123", "main card", excludeID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLIssuerRepository(t *testing.T) {
	t.Run("create maps unique violation to label conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		issuer := &cardsDomain.Issuer{
			ID:        uuid.Must(uuid.NewV7()),
			Label:     "Chase",
			CreatedAt: time.Now().UTC(),
		}

		mock.ExpectExec("INSERT INTO credit_card_issuers").
			WithArgs(issuer.ID, issuer.Label, issuer.CreatedAt).
			WillReturnError(errDuplicateKey{})

		repo := NewPostgreSQLIssuerRepository(db)
		err = repo.Create(context.Background(), issuer)

		assert.ErrorIs(t, err, cardsDomain.ErrIssuerLabelTaken)
	})

	t.Run("list returns issuers", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "label", "created_at"}).AddRow(id, "Chase", now)

		mock.ExpectQuery("SELECT (.+) FROM credit_card_issuers").WillReturnRows(rows)

		repo := NewPostgreSQLIssuerRepository(db)
		issuers, err := repo.List(context.Background())

		require.NoError(t, err)
		require.Len(t, issuers, 1)
		assert.Equal(t, "Chase", issuers[0].Label)
	})
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return `pq: duplicate key value violates unique constraint "credit_card_issuers_label_key"`
}
