package app

import (
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-card-ledger/logger"
	"go-card-ledger/model"
	"go-card-ledger/repository"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// capturingStore records what was saved so the shutdown path can be checked.
type capturingStore struct {
	saved   []repository.Snapshot
	saveErr error
}

func (s *capturingStore) Save(snap repository.Snapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, snap)
	return nil
}

func (s *capturingStore) Load() (repository.Snapshot, error) {
	return repository.Snapshot{}, os.ErrNotExist
}

func TestSaveFinalSnapshot(t *testing.T) {
	registry := repository.NewAccountRegistry()
	account := &model.Account{
		ID:        "a1",
		OwnerName: "Grace Hopper",
		Balance:   decimal.NewFromInt(50000),
	}
	registry.Enroll(account, func() model.Card {
		return model.Card{Number: "6104331234567890", CVV: "123"}
	})

	store := &capturingStore{}
	saveFinalSnapshot(store, registry)

	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[0].Accounts, 1)
	saved := store.saved[0].Accounts[0]
	assert.Equal(t, "a1", saved.ID)
	assert.Equal(t, "6104331234567890", saved.Card.Number)
	assert.True(t, decimal.NewFromInt(50000).Equal(saved.Balance))
}

// A failing store must not take the shutdown down with it.
func TestSaveFinalSnapshotStoreFailure(t *testing.T) {
	registry := repository.NewAccountRegistry()
	store := &capturingStore{saveErr: errors.New("disk full")}

	assert.NotPanics(t, func() {
		saveFinalSnapshot(store, registry)
	})
	assert.Empty(t, store.saved)
}
