// file: service/account_service.go

package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-card-ledger/audit"
	"go-card-ledger/card"
	"go-card-ledger/logger"
	"go-card-ledger/model"
	"go-card-ledger/repository"
)

// AccountService opens accounts: it confirms the password, issues a card
// and enrolls the account in the registry.
type AccountService struct {
	registry repository.IAccountRegistry
	auditor  audit.Auditor
	issue    func() model.Card
}

func NewAccountService(registry repository.IAccountRegistry, auditor audit.Auditor) *AccountService {
	return &AccountService{
		registry: registry,
		auditor:  auditor,
		issue:    card.Issue,
	}
}

// OpenAccount creates an account with an initial balance. The password must
// match its confirmation before anything else happens, so a mismatch never
// leaves an orphaned card behind. An initial balance below the withdrawal
// floor is allowed; only outgoing movements are floor-checked.
func (s *AccountService) OpenAccount(ownerName string, initialBalance decimal.Decimal, password, confirmation string) (*model.Account, error) {
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}
	if initialBalance.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		OwnerName:    ownerName,
		Balance:      initialBalance,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	s.registry.Enroll(account, s.issue)

	s.auditor.Record(audit.Event{
		Kind: "AccountOpened", AccountID: account.ID,
		Amount: initialBalance, Outcome: audit.OutcomeCommitted,
	})
	logger.Log.WithFields(logrus.Fields{
		"account_id":  account.ID,
		"card_number": account.Card.Number,
	}).Info("Account opened")
	return account, nil
}

// Authenticate verifies card-number login credentials and returns the
// matching account.
func (s *AccountService) Authenticate(cardNumber, password string) (*model.Account, error) {
	account, ok := s.registry.Lookup(cardNumber)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if !CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrIncorrectPassword
	}
	return account, nil
}
