package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit    TransactionKind = "Deposit"
	KindWithdrawal TransactionKind = "Withdrawal"
	KindTransfer   TransactionKind = "Transfer"
	KindCharge     TransactionKind = "Charge"
)

// CounterpartyNone marks a transfer whose recipient could not be resolved.
const CounterpartyNone = "non-existent"

// TransactionRecord is one entry of an account's history. Records are
// immutable once appended.
type TransactionRecord struct {
	ID           string          `json:"id"`
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
