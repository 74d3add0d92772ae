package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"go-card-ledger/model"
)

// PersistedAccount is the storage representation of an account. Unlike the
// API model it carries the password hash and card secrets, so it must never
// leave the persistence layer.
type PersistedAccount struct {
	ID           string                    `json:"id"`
	OwnerName    string                    `json:"owner_name"`
	Balance      decimal.Decimal           `json:"balance"`
	PasswordHash string                    `json:"password_hash"`
	Card         PersistedCard             `json:"card"`
	History      []model.TransactionRecord `json:"transaction_history"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// PersistedCard is the storage shape of a card. The API model keeps the CVV
// out of its JSON; the snapshot must not, or restored accounts could never
// be charged again.
type PersistedCard struct {
	Number string    `json:"card_number"`
	CVV    string    `json:"cvv"`
	Expiry time.Time `json:"expiry_date"`
}

// Snapshot is a point-in-time export of every account in the registry.
type Snapshot struct {
	SavedAt  time.Time          `json:"saved_at"`
	Accounts []PersistedAccount `json:"accounts"`
}

// Store is the persistence collaborator. Implementations are interchangeable
// and failures are never fatal to transaction processing: the registry keeps
// serving from memory and a failed save is reported as a warning.
type Store interface {
	Save(snap Snapshot) error
	Load() (Snapshot, error)
}
