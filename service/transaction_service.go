package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-card-ledger/audit"
	"go-card-ledger/logger"
	"go-card-ledger/model"
	"go-card-ledger/repository"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrPasswordMismatch    = errors.New("password confirmation does not match")
	ErrInvalidCard         = errors.New("invalid card details")
	ErrInvalidCvv          = errors.New("invalid cvv")
	ErrAccountNotFound     = errors.New("account not found")
	ErrSameAccountTransfer = errors.New("cannot transfer money to the same account")
)

var (
	// MinBalance is the floor an account must retain after a withdrawal.
	MinBalance = decimal.NewFromInt(10000)
	// FeeRate is the proportional fee on transfers and charges (0.5%).
	FeeRate = decimal.RequireFromString("0.005")
	// WithdrawalFee is the flat fee debited on top of every withdrawal.
	WithdrawalFee = decimal.RequireFromString("0.005")
)

// CalculateFee quotes the proportional fee for a transfer or charge of the
// given amount, without committing anything.
func CalculateFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(FeeRate)
}

// TransactionService is the sole mutator of account balances. Every
// operation either commits fully or leaves all involved balances untouched,
// and a history record is appended iff the balance mutation committed.
type TransactionService struct {
	registry repository.IAccountRegistry
	auditor  audit.Auditor
}

func NewTransactionService(registry repository.IAccountRegistry, auditor audit.Auditor) *TransactionService {
	return &TransactionService{
		registry: registry,
		auditor:  auditor,
	}
}

// FindAccount resolves a card number to its account.
func (s *TransactionService) FindAccount(cardNumber string) (*model.Account, error) {
	account, ok := s.registry.Lookup(cardNumber)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Deposit credits the amount. Deposits carry no fee, are not floor-checked
// and require no password; gating them is the caller's concern.
func (s *TransactionService) Deposit(account *model.Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	account.Lock()
	account.Balance = account.Balance.Add(amount)
	account.Record(newRecord(model.KindDeposit, amount, ""))
	account.Unlock()

	s.auditor.Record(audit.Event{
		Kind: string(model.KindDeposit), AccountID: account.ID,
		Amount: amount, Outcome: audit.OutcomeCommitted,
	})
	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"amount":     amount.String(),
	}).Info("Deposit committed")
	return nil
}

// Withdraw debits amount plus the flat withdrawal fee. The floor check
// deliberately excludes the fee (balance - amount >= MinBalance), matching
// the documented policy: the post-balance may sit one fee below the floor.
func (s *TransactionService) Withdraw(account *model.Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	account.Lock()
	defer account.Unlock()

	if account.Balance.Sub(amount).LessThan(MinBalance) {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindWithdrawal), AccountID: account.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrInsufficientFunds.Error(),
		})
		return ErrInsufficientFunds
	}

	account.Balance = account.Balance.Sub(amount.Add(WithdrawalFee))
	account.Record(newRecord(model.KindWithdrawal, amount, ""))

	s.auditor.Record(audit.Event{
		Kind: string(model.KindWithdrawal), AccountID: account.ID,
		Amount: amount, Outcome: audit.OutcomeCommitted,
	})
	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"amount":     amount.String(),
	}).Info("Withdrawal committed")
	return nil
}

// Transfer moves amount from sender to recipient. The sender pays the
// principal plus the proportional fee; the recipient gains the bare
// principal. A nil recipient models a transfer to an unknown account: the
// principal stays with the sender and only the processing fee is debited.
//
// Both sides commit inside one critical section, so no observer ever sees a
// debited sender next to an uncredited recipient.
func (s *TransactionService) Transfer(sender *model.Account, amount decimal.Decimal, recipient *model.Account, password string) error {
	if recipient != nil && recipient.ID == sender.ID {
		return ErrSameAccountTransfer
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	if recipient != nil {
		lockOrdered(sender, recipient)
		defer unlockOrdered(sender, recipient)
	} else {
		sender.Lock()
		defer sender.Unlock()
	}

	if sender.Balance.LessThan(amount) {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindTransfer), AccountID: sender.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrInsufficientFunds.Error(),
		})
		return ErrInsufficientFunds
	}
	if !CheckPasswordHash(password, sender.PasswordHash) {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindTransfer), AccountID: sender.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrIncorrectPassword.Error(),
		})
		return ErrIncorrectPassword
	}

	fee := CalculateFee(amount)
	log := logger.Log.WithFields(logrus.Fields{
		"sender_id": sender.ID,
		"amount":    amount.String(),
		"fee":       fee.String(),
	})

	if recipient == nil {
		// Fee-for-attempted-transfer: the principal is never deducted.
		sender.Balance = sender.Balance.Sub(fee)
		sender.Record(newRecord(model.KindTransfer, amount, model.CounterpartyNone))

		s.auditor.Record(audit.Event{
			Kind: string(model.KindTransfer), AccountID: sender.ID,
			CounterpartyID: model.CounterpartyNone,
			Amount:         amount, Outcome: audit.OutcomeCommitted,
		})
		log.Info("Transfer to non-existent account, fee charged")
		return nil
	}

	sender.Balance = sender.Balance.Sub(amount).Sub(fee)
	recipient.Balance = recipient.Balance.Add(amount)

	sender.Record(newRecord(model.KindTransfer, amount, recipient.ID))
	recipient.Record(newRecord(model.KindTransfer, amount, sender.ID))

	s.auditor.Record(audit.Event{
		Kind: string(model.KindTransfer), AccountID: sender.ID,
		CounterpartyID: recipient.ID,
		Amount:         amount, Outcome: audit.OutcomeCommitted,
	})
	log.WithField("recipient_id", recipient.ID).Info("Transfer committed")
	return nil
}

// ChargeCard charges a wallet against the card's account. The caller
// authenticates with the full card credentials; validation then follows the
// no-recipient transfer path, so the net effect on the account is a fee-only
// debit. Returns the net amount charged (amount minus fee).
func (s *TransactionService) ChargeCard(cardNumber, cvv, password string, amount decimal.Decimal) (decimal.Decimal, error) {
	account, ok := s.registry.Lookup(cardNumber)
	if !ok {
		return decimal.Zero, ErrInvalidCard
	}
	if account.Card.CVV != cvv {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindCharge), AccountID: account.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrInvalidCvv.Error(),
		})
		return decimal.Zero, ErrInvalidCvv
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	account.Lock()
	defer account.Unlock()

	if account.Balance.LessThan(amount) {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindCharge), AccountID: account.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrInsufficientFunds.Error(),
		})
		return decimal.Zero, ErrInsufficientFunds
	}
	if !CheckPasswordHash(password, account.PasswordHash) {
		s.auditor.Record(audit.Event{
			Kind: string(model.KindCharge), AccountID: account.ID,
			Amount: amount, Outcome: audit.OutcomeRejected, Reason: ErrIncorrectPassword.Error(),
		})
		return decimal.Zero, ErrIncorrectPassword
	}

	fee := CalculateFee(amount)
	account.Balance = account.Balance.Sub(fee)
	account.Record(newRecord(model.KindCharge, amount, ""))

	net := amount.Sub(fee)
	s.auditor.Record(audit.Event{
		Kind: string(model.KindCharge), AccountID: account.ID,
		Amount: amount, Outcome: audit.OutcomeCommitted,
	})
	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"charged":    net.String(),
	}).Info("Card charge committed")
	return net, nil
}

// ListTransactions returns a copy of the account's history.
func (s *TransactionService) ListTransactions(account *model.Account) []model.TransactionRecord {
	account.Lock()
	defer account.Unlock()
	out := make([]model.TransactionRecord, len(account.History))
	copy(out, account.History)
	return out
}

func newRecord(kind model.TransactionKind, amount decimal.Decimal, counterparty string) model.TransactionRecord {
	return model.TransactionRecord{
		ID:           uuid.NewString(),
		Kind:         kind,
		Amount:       amount,
		Counterparty: counterparty,
		CreatedAt:    time.Now(),
	}
}

// lockOrdered takes both account locks in ascending ID order so two
// opposite-direction transfers can never deadlock.
func lockOrdered(a, b *model.Account) {
	if a.ID < b.ID {
		a.Lock()
		b.Lock()
		return
	}
	b.Lock()
	a.Lock()
}

func unlockOrdered(a, b *model.Account) {
	a.Unlock()
	b.Unlock()
}
