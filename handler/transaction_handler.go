package handler

import (
	"encoding/json"
	"net/http"

	"go-card-ledger/common"
	"go-card-ledger/model"
	"go-card-ledger/service"
)

// TransactionHandler maps HTTP requests onto the transaction engine.
type TransactionHandler struct {
	service *service.TransactionService
}

func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// Deposit godoc
// @Summary      Deposit into an account
// @Description  Credits the amount to the account behind the card number. Deposits carry no fee.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cardNumber path string true "Card number of the account"
// @Param        deposit body model.AmountRequest true "Deposit amount"
// @Success      200  {object}  model.AccountView
// @Failure      400  {object}  common.AppError "Non-positive amount"
// @Failure      404  {object}  common.AppError "Unknown card number"
// @Router       /api/accounts/{cardNumber}/deposit [post]
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AmountRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	account, err := h.service.FindAccount(r.PathValue("cardNumber"))
	if err != nil {
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	}

	if err := h.service.Deposit(account, req.Amount); err != nil {
		return mapEngineError(err)
	}

	writeJSON(w, http.StatusOK, account.View())
	return nil
}

// Withdraw godoc
// @Summary      Withdraw from an account
// @Description  Debits the amount plus the flat fee. Fails when the balance would drop below the floor.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cardNumber path string true "Card number of the account"
// @Param        withdrawal body model.AmountRequest true "Withdrawal amount"
// @Success      200  {object}  model.AccountView
// @Failure      400  {object}  common.AppError "Non-positive amount or insufficient funds"
// @Failure      403  {object}  common.AppError "Caller does not own the account"
// @Failure      404  {object}  common.AppError "Unknown card number"
// @Router       /api/accounts/{cardNumber}/withdraw [post]
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.AmountRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	cardNumber := r.PathValue("cardNumber")
	if appErr := requireOwnCard(r, cardNumber); appErr != nil {
		return appErr
	}

	account, err := h.service.FindAccount(cardNumber)
	if err != nil {
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	}

	if err := h.service.Withdraw(account, req.Amount); err != nil {
		return mapEngineError(err)
	}

	writeJSON(w, http.StatusOK, account.View())
	return nil
}

// CreateTransfer godoc
// @Summary      Transfer money to another card
// @Description  Moves the amount from the caller's account to the target card. An empty to_card_number charges only the processing fee.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Transfer details"
// @Success      200  {object}  model.AccountView
// @Failure      400  {object}  common.AppError "Invalid amount or insufficient funds"
// @Failure      401  {object}  common.AppError "Incorrect account password"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	senderCard, ok := r.Context().Value(CardNumberKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid card number in token", nil)
	}

	sender, err := h.service.FindAccount(senderCard)
	if err != nil {
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	}

	// An unknown target card is a valid request: the engine charges the fee
	// and keeps the principal with the sender.
	var recipient *model.Account
	if req.ToCardNumber != "" {
		recipient, _ = h.service.FindAccount(req.ToCardNumber)
	}

	if err := h.service.Transfer(sender, req.Amount, recipient, req.Password); err != nil {
		return mapEngineError(err)
	}

	// Encode a copied view, not the live account: a concurrent operation on
	// the same account must never race with the encoder.
	writeJSON(w, http.StatusOK, sender.View())
	return nil
}

// Charge godoc
// @Summary      Charge a wallet via card details
// @Description  Validates card number, CVV and password, debits the processing fee and returns the net amount charged.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        charge body model.ChargeRequest true "Charge details"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid card, CVV, amount or insufficient funds"
// @Failure      401  {object}  common.AppError "Incorrect account password"
// @Router       /api/charges [post]
func (h *TransactionHandler) Charge(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ChargeRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	charged, err := h.service.ChargeCard(req.CardNumber, req.CVV, req.Password, req.Amount)
	if err != nil {
		return mapEngineError(err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"amount_charged": charged.String()})
	return nil
}

// ListTransactionsForAccount godoc
// @Summary      List account transaction history
// @Description  Returns the append-only transaction history of the caller's account.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        cardNumber path string true "Card number of the account"
// @Success      200  {array}   model.TransactionRecord
// @Failure      403  {object}  common.AppError "Caller does not own the account"
// @Failure      404  {object}  common.AppError "Unknown card number"
// @Router       /api/accounts/{cardNumber}/transactions [get]
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardNumber := r.PathValue("cardNumber")
	if appErr := requireOwnCard(r, cardNumber); appErr != nil {
		return appErr
	}

	account, err := h.service.FindAccount(cardNumber)
	if err != nil {
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	}

	writeJSON(w, http.StatusOK, h.service.ListTransactions(account))
	return nil
}

// requireOwnCard rejects requests whose bearer token was not issued for the
// card number in the URL path.
func requireOwnCard(r *http.Request, cardNumber string) *common.AppError {
	tokenCard, ok := r.Context().Value(CardNumberKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid card number in token", nil)
	}
	if tokenCard != cardNumber {
		return common.NewAppError(http.StatusForbidden, "You can only operate on your own account", nil)
	}
	return nil
}

func mapEngineError(err error) *common.AppError {
	switch err {
	case service.ErrAccountNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case service.ErrIncorrectPassword:
		return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
	case service.ErrInvalidAmount, service.ErrInsufficientFunds, service.ErrInvalidCard,
		service.ErrInvalidCvv, service.ErrSameAccountTransfer:
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not process operation", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
