// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for opening a new account.
// The password must be confirmed twice; a mismatch fails the whole
// operation before any card is issued.
type RegisterRequest struct {
	OwnerName            string          `json:"owner_name" validate:"required,min=2,max=100"`
	InitialBalance       decimal.Decimal `json:"initial_balance"`
	Password             string          `json:"password" validate:"required,min=8"`
	PasswordConfirmation string          `json:"password_confirmation" validate:"required,min=8"`
}

// LoginRequest defines the payload for account authentication.
type LoginRequest struct {
	CardNumber string `json:"card_number" validate:"required,len=16,numeric"`
	Password   string `json:"password" validate:"required,min=8"`
}

// AmountRequest carries the amount for deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// TransferRequest defines a money transfer. An empty to_card_number models a
// transfer to an unknown account: the principal stays put and only the
// processing fee is debited.
type TransferRequest struct {
	ToCardNumber string          `json:"to_card_number" validate:"omitempty,len=16,numeric"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Password     string          `json:"password" validate:"required"`
}

// ChargeRequest defines a card-based charge, authenticated by the card
// credentials themselves.
type ChargeRequest struct {
	CardNumber string          `json:"card_number" validate:"required,len=16,numeric"`
	CVV        string          `json:"cvv" validate:"required,len=3,numeric"`
	Password   string          `json:"password" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
}
