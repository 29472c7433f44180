// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bankledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Account routes
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", ledgerHandler.CreateAccount)
		r.Get("/{accountNumber}", ledgerHandler.GetAccount)
		r.Put("/{accountNumber}/status", ledgerHandler.SetAccountStatus)
		r.Post("/{accountNumber}/deposits", ledgerHandler.Deposit)
		r.Get("/{accountNumber}/transactions", ledgerHandler.GetTransactionHistory)
	})

	// Transfer is a separate top-level endpoint as it involves two accounts
	r.Post("/transfers", ledgerHandler.Transfer)

	// Oversight projection over the audit trail
	r.Get("/transactions", ledgerHandler.ListTransactions)

	return r
}
