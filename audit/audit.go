// Package audit emits a structured event for every operation the engine
// decides on. Recording is best-effort and never blocks or fails a
// transaction.
package audit

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"go-card-ledger/logger"
)

const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
)

// Event describes one decided operation.
type Event struct {
	Kind           string
	AccountID      string
	CounterpartyID string
	Amount         decimal.Decimal
	Outcome        string
	Reason         string
}

// Auditor receives events for committed and rejected operations.
type Auditor interface {
	Record(event Event)
}

// LogAuditor writes audit events to the process log.
type LogAuditor struct{}

func NewLogAuditor() *LogAuditor {
	return &LogAuditor{}
}

func (a *LogAuditor) Record(event Event) {
	log := logger.Log.WithFields(logrus.Fields{
		"kind":       event.Kind,
		"account_id": event.AccountID,
		"amount":     event.Amount.String(),
		"outcome":    event.Outcome,
	})
	if event.CounterpartyID != "" {
		log = log.WithField("counterparty_id", event.CounterpartyID)
	}

	if event.Outcome == OutcomeCommitted {
		log.Info("Operation committed")
		return
	}
	log.WithField("reason", event.Reason).Warn("Operation rejected")
}

// Nop discards every event. Used in tests.
type Nop struct{}

func (Nop) Record(Event) {}
