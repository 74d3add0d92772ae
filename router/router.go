package router

import (
	"net/http"

	"go-card-ledger/handler"
)

func NewRouter(accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	if accountHandler != nil {
		mux.Handle("POST /register", handler.ErrorHandlingMiddleware(accountHandler.Register))
		mux.Handle("POST /login", handler.ErrorHandlingMiddleware(accountHandler.Login))
	}

	if transactionHandler != nil {
		api := http.NewServeMux()
		api.Handle("POST /api/accounts/{cardNumber}/deposit", handler.ErrorHandlingMiddleware(transactionHandler.Deposit))
		api.Handle("POST /api/accounts/{cardNumber}/withdraw", handler.ErrorHandlingMiddleware(transactionHandler.Withdraw))
		api.Handle("GET /api/accounts/{cardNumber}/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListTransactionsForAccount))
		api.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransfer))
		api.Handle("POST /api/charges", handler.ErrorHandlingMiddleware(transactionHandler.Charge))

		mux.Handle("/api/", handler.AuthMiddleware(api))
	}

	return mux
}
