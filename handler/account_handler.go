package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"go-card-ledger/common"
	"go-card-ledger/logger"
	"go-card-ledger/model"
	"go-card-ledger/service"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register godoc
// @Summary      Open a new account
// @Description  Opens an account with an initial balance and issues its payment card. The password must be confirmed twice.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account body model.RegisterRequest true "Account details"
// @Success      201  {object}  model.OpenedAccount
// @Failure      400  {object}  common.AppError "Password confirmation mismatch or negative initial balance"
// @Router       /register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithField("owner_name", req.OwnerName)
	log.Info("Open account request received")

	account, err := h.service.OpenAccount(req.OwnerName, req.InitialBalance, req.Password, req.PasswordConfirmation)
	if err != nil {
		switch err {
		case service.ErrPasswordMismatch, service.ErrInvalidAmount:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not open account", err)
		}
	}

	// The one payload that carries the CVV: the card is delivered to its
	// owner here and never echoed again.
	view := account.View()
	resp := model.OpenedAccount{
		AccountView: view,
		Card: model.IssuedCard{
			Number: view.Card.Number,
			CVV:    view.Card.CVV,
			Expiry: view.Card.Expiry,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
	return nil
}

// Login godoc
// @Summary      Authenticate with card number and password
// @Description  Issues a short-lived bearer token for the account behind the card number.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login credentials"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Unknown card or incorrect password"
// @Router       /login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	account, err := h.service.Authenticate(req.CardNumber, req.Password)
	if err != nil {
		// One answer for both failure modes, to avoid confirming which card
		// numbers exist.
		return common.NewAppError(http.StatusUnauthorized, "Invalid card number or password", err)
	}

	token, err := service.GenerateJWT(account.ID, account.Card.Number)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not generate token", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
	}).Info("Login successful")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": token})
	return nil
}
