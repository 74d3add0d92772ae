package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-card-ledger/logger"
	"go-card-ledger/model"
)

// PostgresStore persists snapshots to the accounts and transactions tables.
// It satisfies the same Store contract as the JSON file store, so the two
// can be swapped through configuration.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Save upserts every account and appends any transaction rows not yet
// stored. History rows are keyed by record ID, so re-saving a snapshot is
// idempotent.
func (s *PostgresStore) Save(snap Snapshot) error {
	log := logger.Log.WithField("accounts", len(snap.Accounts))
	log.Info("Saving account snapshot to database")

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	accountQuery := `
		INSERT INTO accounts (id, owner_name, balance, password_hash, card_number, card_cvv, card_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, password_hash = EXCLUDED.password_hash`

	recordQuery := `
		INSERT INTO transactions (id, account_id, kind, amount, counterparty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	for _, a := range snap.Accounts {
		_, err := tx.Exec(accountQuery,
			a.ID, a.OwnerName, a.Balance, a.PasswordHash,
			a.Card.Number, a.Card.CVV, a.Card.Expiry, a.CreatedAt)
		if err != nil {
			log.WithError(err).WithField("account_id", a.ID).Error("Failed to upsert account")
			return err
		}

		for _, rec := range a.History {
			_, err := tx.Exec(recordQuery,
				rec.ID, a.ID, string(rec.Kind), rec.Amount, rec.Counterparty, rec.CreatedAt)
			if err != nil {
				log.WithError(err).WithFields(logrus.Fields{
					"account_id": a.ID,
					"record_id":  rec.ID,
				}).Error("Failed to insert transaction record")
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit snapshot: %w", err)
	}
	return nil
}

// Load reads every account and its history back into a snapshot.
func (s *PostgresStore) Load() (Snapshot, error) {
	log := logger.Log
	log.Info("Loading account snapshot from database")

	snap := Snapshot{SavedAt: time.Now()}

	accountQuery := `SELECT id, owner_name, balance, password_hash, card_number, card_cvv, card_expiry, created_at FROM accounts`
	rows, err := s.DB.Query(accountQuery)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts")
		return snap, err
	}
	defer rows.Close()

	byID := make(map[string]*PersistedAccount)
	for rows.Next() {
		var a PersistedAccount
		if err := rows.Scan(&a.ID, &a.OwnerName, &a.Balance, &a.PasswordHash,
			&a.Card.Number, &a.Card.CVV, &a.Card.Expiry, &a.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return snap, err
		}
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	recordQuery := `
		SELECT id, account_id, kind, amount, counterparty, created_at
		FROM transactions
		ORDER BY seq ASC`
	recRows, err := s.DB.Query(recordQuery)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions")
		return snap, err
	}
	defer recRows.Close()

	for recRows.Next() {
		var rec model.TransactionRecord
		var accountID, kind string
		if err := recRows.Scan(&rec.ID, &accountID, &kind, &rec.Amount, &rec.Counterparty, &rec.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return snap, err
		}
		rec.Kind = model.TransactionKind(kind)
		if a, ok := byID[accountID]; ok {
			a.History = append(a.History, rec)
		}
	}
	if err := recRows.Err(); err != nil {
		return snap, err
	}

	for _, a := range byID {
		snap.Accounts = append(snap.Accounts, *a)
	}
	log.WithField("accounts", len(snap.Accounts)).Info("Account snapshot loaded")
	return snap, nil
}
