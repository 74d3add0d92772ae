package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-card-ledger/model"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Accounts: []PersistedAccount{
			{
				ID:           "a1",
				OwnerName:    "Grace Hopper",
				Balance:      decimal.RequireFromString("49899.995"),
				PasswordHash: "$2a$10$notarealhash",
				Card: PersistedCard{
					Number: "6104331234567890",
					CVV:    "123",
					Expiry: time.Now().AddDate(2, 0, 0).Truncate(time.Second),
				},
				History: []model.TransactionRecord{
					{
						ID:        "rec-1",
						Kind:      model.KindWithdrawal,
						Amount:    decimal.NewFromInt(100),
						CreatedAt: time.Now().Truncate(time.Second),
					},
				},
				CreatedAt: time.Now().Truncate(time.Second),
			},
		},
	}
}

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	store := NewJSONStore(path)

	want := testSnapshot()
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.False(t, got.SavedAt.IsZero())

	require.Len(t, got.Accounts, 1)
	a := got.Accounts[0]
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "Grace Hopper", a.OwnerName)
	assert.True(t, want.Accounts[0].Balance.Equal(a.Balance))
	assert.Equal(t, want.Accounts[0].PasswordHash, a.PasswordHash)
	assert.Equal(t, want.Accounts[0].Card.Number, a.Card.Number)
	assert.Equal(t, want.Accounts[0].Card.CVV, a.Card.CVV)
	require.Len(t, a.History, 1)
	assert.Equal(t, model.KindWithdrawal, a.History[0].Kind)
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

	_, err := store.Load()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// A save must not leave a temp file behind.
func TestJSONStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(filepath.Join(dir, "accounts.json"))

	require.NoError(t, store.Save(testSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "accounts.json", entries[0].Name())
}

func TestJSONStore_SaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Save(testSnapshot()))

	second := testSnapshot()
	second.Accounts[0].Balance = decimal.NewFromInt(12345)
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got.Accounts, 1)
	assert.True(t, decimal.NewFromInt(12345).Equal(got.Accounts[0].Balance))
}
