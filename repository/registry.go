package repository

import (
	"sync"

	"go-card-ledger/logger"
	"go-card-ledger/model"
)

// IAccountRegistry defines the contract for the in-memory account index.
type IAccountRegistry interface {
	Enroll(account *model.Account, issue func() model.Card)
	Lookup(cardNumber string) (*model.Account, bool)
	All() []*model.Account
	Snapshot() Snapshot
	Restore(snap Snapshot)
}

// AccountRegistry maps card number to account and is the single source of
// truth for which accounts exist. It owns its lock; per-account balance
// mutation is guarded by the account locks, not by the registry.
type AccountRegistry struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{accounts: make(map[string]*model.Account)}
}

// Enroll issues a card for the account and inserts it into the registry.
// Issuance runs under the registry lock and retries silently until the
// generated number is unique, so two concurrent enrollments can never end
// up sharing a card number.
func (r *AccountRegistry) Enroll(account *model.Account, issue func() model.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		c := issue()
		if _, taken := r.accounts[c.Number]; taken {
			logger.Log.WithField("account_id", account.ID).
				Warn("Card number collision, reissuing")
			continue
		}
		account.Card = c
		r.accounts[c.Number] = account
		return
	}
}

// Lookup returns the account a card number belongs to, if any. O(1).
func (r *AccountRegistry) Lookup(cardNumber string) (*model.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[cardNumber]
	return account, ok
}

// All returns the registered accounts.
func (r *AccountRegistry) All() []*model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out
}

// Snapshot exports the registry for the persistence collaborator. Account
// locks are taken one at a time so a snapshot can run next to live traffic.
func (r *AccountRegistry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{Accounts: make([]PersistedAccount, 0, len(r.accounts))}
	for _, a := range r.accounts {
		a.Lock()
		history := make([]model.TransactionRecord, len(a.History))
		copy(history, a.History)
		snap.Accounts = append(snap.Accounts, PersistedAccount{
			ID:           a.ID,
			OwnerName:    a.OwnerName,
			Balance:      a.Balance,
			PasswordHash: a.PasswordHash,
			Card: PersistedCard{
				Number: a.Card.Number,
				CVV:    a.Card.CVV,
				Expiry: a.Card.Expiry,
			},
			History:   history,
			CreatedAt: a.CreatedAt,
		})
		a.Unlock()
	}
	return snap
}

// Restore rebuilds the registry from a snapshot, replacing current state.
func (r *AccountRegistry) Restore(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = make(map[string]*model.Account, len(snap.Accounts))
	for _, pa := range snap.Accounts {
		r.accounts[pa.Card.Number] = &model.Account{
			ID:           pa.ID,
			OwnerName:    pa.OwnerName,
			Balance:      pa.Balance,
			PasswordHash: pa.PasswordHash,
			Card: model.Card{
				Number: pa.Card.Number,
				CVV:    pa.Card.CVV,
				Expiry: pa.Card.Expiry,
			},
			History:   pa.History,
			CreatedAt: pa.CreatedAt,
		}
	}
}
