package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Save(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	snap := testSnapshot()
	a := snap.Accounts[0]

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, a.OwnerName, a.Balance, a.PasswordHash,
			a.Card.Number, a.Card.CVV, a.Card.Expiry, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec("INSERT INTO transactions").
		WithArgs(a.History[0].ID, a.ID, "Withdrawal", a.History[0].Amount,
			a.History[0].Counterparty, a.History[0].CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	err = store.Save(snap)

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRollsBackOnError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errors.New("insert failed"))
	dbMock.ExpectRollback()

	err = store.Save(testSnapshot())

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_Load(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	now := time.Now()

	accountRows := sqlmock.NewRows([]string{
		"id", "owner_name", "balance", "password_hash", "card_number", "card_cvv", "card_expiry", "created_at",
	}).AddRow("a1", "Grace Hopper", "49899.995", "$2a$10$notarealhash",
		"6104331234567890", "123", now.AddDate(2, 0, 0), now)

	recordRows := sqlmock.NewRows([]string{
		"id", "account_id", "kind", "amount", "counterparty", "created_at",
	}).AddRow("rec-1", "a1", "Withdrawal", "100", "", now).
		AddRow("rec-2", "a1", "Deposit", "250", "", now)

	dbMock.ExpectQuery("SELECT (.+) FROM accounts").WillReturnRows(accountRows)
	dbMock.ExpectQuery("SELECT (.+) FROM transactions").WillReturnRows(recordRows)

	snap, err := store.Load()

	require.NoError(t, err)
	require.Len(t, snap.Accounts, 1)
	a := snap.Accounts[0]
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "6104331234567890", a.Card.Number)
	require.Len(t, a.History, 2)
	// History order follows the insertion sequence.
	assert.Equal(t, "rec-1", a.History[0].ID)
	assert.Equal(t, "rec-2", a.History[1].ID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
