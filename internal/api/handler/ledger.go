// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bankledger/internal/api/types"
	"bankledger/internal/domain"
	"bankledger/internal/repository"
	"bankledger/internal/service"
	"bankledger/internal/util"
)

// DefaultTimeout bounds request handling in the router's timeout middleware.
const DefaultTimeout = 60 * time.Second

// LedgerHandler handles HTTP requests against the banking core. It resolves
// usernames and account numbers to accounts before invoking the service.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrInvalidAmount), util.IsError(err, util.ErrSelfTransfer):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrAccountNotFound):
		statusCode = http.StatusNotFound
		message = "Account not found"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrInactiveAccount):
		statusCode = http.StatusConflict
		message = "Account is not active"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Username or email already in use"
	case util.IsError(err, util.ErrOperationFailed):
		statusCode = http.StatusServiceUnavailable
		message = "Operation failed, try again"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateAccount handles the account registration request.
// POST /accounts
func (h *LedgerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.Username == "" || req.Email == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.Username, req.Email)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, account)
}

// GetAccount handles the account lookup request.
// GET /accounts/{accountNumber}
func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.resolveByNumber(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, account)
}

// StatusRequest represents the request body for a status change.
type StatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

// SetAccountStatus handles the activate/deactivate request.
// PUT /accounts/{accountNumber}/status
func (h *LedgerHandler) SetAccountStatus(w http.ResponseWriter, r *http.Request) {
	account, err := h.resolveByNumber(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	updated, err := h.service.SetAccountStatus(r.Context(), account.ID, req.Status)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

// DepositRequest represents the request body for an administrative deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Actor  string          `json:"actor"` // username of the initiating administrator
}

// Deposit handles the administrative deposit request.
// POST /accounts/{accountNumber}/deposits
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	target, err := h.resolveByNumber(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.Actor == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	actor, err := h.service.GetAccountByUsername(r.Context(), req.Actor)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	account, transaction, err := h.service.Deposit(r.Context(), target.ID, req.Amount, actor.ID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Deposit successful",
		"account_number": account.AccountNumber,
		"new_balance":    account.Balance,
		"transaction_id": transaction.ID,
		"reference":      transaction.Reference,
	})
}

// TransferRequest represents the request body for a transfer. The recipient
// may be addressed by username or by account number.
type TransferRequest struct {
	SenderAccountNumber    string          `json:"sender_account_number"`
	RecipientUsername      string          `json:"recipient_username"`
	RecipientAccountNumber string          `json:"recipient_account_number"`
	Amount                 decimal.Decimal `json:"amount"`
	Details                *string         `json:"details"`
}

// Transfer handles the peer-to-peer transfer request.
// POST /transfers
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.SenderAccountNumber == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.RecipientUsername == "" && req.RecipientAccountNumber == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	sender, err := h.service.GetAccountByNumber(r.Context(), req.SenderAccountNumber)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var recipient *domain.Account
	if req.RecipientUsername != "" {
		recipient, err = h.service.GetAccountByUsername(r.Context(), req.RecipientUsername)
	} else {
		recipient, err = h.service.GetAccountByNumber(r.Context(), req.RecipientAccountNumber)
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	updatedSender, updatedRecipient, transaction, err := h.service.Transfer(r.Context(), sender.ID, recipient.ID, req.Amount, req.Details)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":               "Transfer successful",
		"transaction_id":        transaction.ID,
		"reference":             transaction.Reference,
		"sender_new_balance":    updatedSender.Balance,
		"recipient_new_balance": updatedRecipient.Balance,
	})
}

// GetTransactionHistory handles the per-account history request.
// GET /accounts/{accountNumber}/transactions
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	account, err := h.resolveByNumber(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	limit, offset := parsePagination(r)

	transactions, totalCount, err := h.service.History(r.Context(), account.ID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// ListTransactions handles the oversight filter query.
// GET /transactions
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":   transactions,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// resolveByNumber resolves the {accountNumber} path parameter to an account.
func (h *LedgerHandler) resolveByNumber(r *http.Request) (*domain.Account, error) {
	accountNumber := chi.URLParam(r, "accountNumber")
	if !domain.ValidAccountNumber(accountNumber) {
		return nil, util.ErrInvalidInput
	}
	return h.service.GetAccountByNumber(r.Context(), accountNumber)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseFilter builds a repository.TransactionFilter from query parameters,
// resolving account numbers to ids.
func (h *LedgerHandler) parseFilter(r *http.Request) (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter
	q := r.URL.Query()

	if v := q.Get("kind"); v != "" {
		kind := domain.TransactionKind(v)
		filter.Kind = &kind
	}
	if v := q.Get("account_number"); v != "" {
		account, err := h.service.GetAccountByNumber(r.Context(), v)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &account.ID
	}
	switch q.Get("role") {
	case "sender":
		filter.Role = repository.RoleSender
	case "receiver":
		filter.Role = repository.RoleReceiver
	case "":
		filter.Role = repository.RoleAny
	default:
		return filter, util.ErrInvalidInput
	}
	if v := q.Get("counterparty"); v != "" {
		account, err := h.service.GetAccountByNumber(r.Context(), v)
		if err != nil {
			return filter, err
		}
		filter.CounterpartyID = &account.ID
	}
	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, util.ErrInvalidInput
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		// A date-only end bound is inclusive: advance a day and compare
		// exclusively. A full timestamp is used as-is.
		if t, err := time.Parse("2006-01-02", v); err == nil {
			t = t.UTC().AddDate(0, 0, 1)
			filter.To = &t
		} else if t, err := time.Parse(time.RFC3339, v); err == nil {
			t = t.UTC()
			filter.To = &t
		} else {
			return filter, util.ErrInvalidInput
		}
	}
	if v := q.Get("min_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, util.ErrInvalidInput
		}
		filter.MinAmount = &d
	}
	if v := q.Get("max_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, util.ErrInvalidInput
		}
		filter.MaxAmount = &d
	}
	filter.Limit, filter.Offset = parsePagination(r)

	return filter, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
