package model

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single ledger account. The balance is a decimal so repeated
// fee subtraction never drifts the way binary floats would.
type Account struct {
	ID           string              `json:"id"`
	OwnerName    string              `json:"owner_name"`
	Balance      decimal.Decimal     `json:"balance"`
	PasswordHash string              `json:"-"` // The hash is not exposed in JSON responses.
	Card         Card                `json:"card"`
	History      []TransactionRecord `json:"transaction_history"`
	CreatedAt    time.Time           `json:"created_at"`

	mu sync.Mutex
}

// Lock takes the account's exclusive lock. Every read-modify-write of the
// balance or history must happen while the lock is held; operations spanning
// two accounts must acquire both locks in ascending ID order.
func (a *Account) Lock() {
	a.mu.Lock()
}

// Unlock releases the account's exclusive lock.
func (a *Account) Unlock() {
	a.mu.Unlock()
}

// Record appends a transaction record to the account's history. The history
// is append-only; entries are never mutated or reordered after insertion.
// The caller must hold the account lock.
func (a *Account) Record(rec TransactionRecord) {
	a.History = append(a.History, rec)
}

// AccountView is a consistent copy of an account for response encoding. It
// carries no lock and aliases no live state, so it is safe to pass around
// and marshal while the account keeps moving.
type AccountView struct {
	ID        string              `json:"id"`
	OwnerName string              `json:"owner_name"`
	Balance   decimal.Decimal     `json:"balance"`
	Card      Card                `json:"card"`
	History   []TransactionRecord `json:"transaction_history"`
	CreatedAt time.Time           `json:"created_at"`
}

// View takes the account lock and copies the account, so the view never
// observes a half-applied operation.
func (a *Account) View() AccountView {
	a.mu.Lock()
	defer a.mu.Unlock()

	history := make([]TransactionRecord, len(a.History))
	copy(history, a.History)
	return AccountView{
		ID:        a.ID,
		OwnerName: a.OwnerName,
		Balance:   a.Balance,
		Card:      a.Card,
		History:   history,
		CreatedAt: a.CreatedAt,
	}
}

// Card is the payment card issued at account-open time, one-to-one with the
// account. The number always carries a valid Luhn check digit. The CVV is a
// credential and stays out of JSON payloads; IssuedCard delivers it to the
// owner exactly once.
type Card struct {
	Number string    `json:"card_number"`
	CVV    string    `json:"-"`
	Expiry time.Time `json:"expiry_date"`
}

// IssuedCard is the card as handed to its owner at account-open time, the
// only payload that carries the CVV.
type IssuedCard struct {
	Number string    `json:"card_number"`
	CVV    string    `json:"cvv"`
	Expiry time.Time `json:"expiry_date"`
}

// OpenedAccount is the account-open reply. Its Card field shadows the
// embedded view's so the CVV appears in this payload alone.
type OpenedAccount struct {
	AccountView
	Card IssuedCard `json:"card"`
}
