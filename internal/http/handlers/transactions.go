package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/http/respond"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

// AccountHistory is one account with its transactions, most recent first.
type AccountHistory struct {
	Account      *models.Account      `json:"account,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
}

// TransactionHandler lists history and performs deposits, withdrawals and transfers.
type TransactionHandler struct {
	accounts     *bank.AccountClient
	transactions *bank.TransactionClient
}

func NewTransactionHandler(accounts *bank.AccountClient, transactions *bank.TransactionClient) *TransactionHandler {
	return &TransactionHandler{accounts: accounts, transactions: transactions}
}

// Register attaches transaction routes to the mux.
func (h *TransactionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /transactions", h.handleList)
	mux.HandleFunc("POST /transactions/deposit", h.handleDeposit)
	mux.HandleFunc("POST /transactions/withdraw", h.handleWithdraw)
	mux.HandleFunc("POST /transactions/transfer", h.handleTransfer)
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.URL.Query().Get("numeroCompte"))
	if number == "" {
		respond.Fields(w, map[string]string{"numeroCompte": "is required"})
		return
	}
	txs, err := h.transactions.List(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	history := AccountHistory{Transactions: txs}

	// History is served without the account header when the lookup fails.
	account, err := h.accounts.FindByNumber(r.Context(), number)
	switch {
	case err == nil:
		history.Account = &account
	case errors.Is(err, bank.ErrAccountNotFound):
	default:
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Str("account", number).Msg("account header lookup failed")
	}
	respond.JSON(w, http.StatusOK, "transactions", history)
}

func (h *TransactionHandler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.transactions.Deposit(r.Context(), req)
	h.reply(w, r, tx, err, "deposit recorded")
}

func (h *TransactionHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawalRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.transactions.Withdraw(r.Context(), req)
	h.reply(w, r, tx, err, "withdrawal recorded")
}

func (h *TransactionHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.transactions.Transfer(r.Context(), req)
	h.reply(w, r, tx, err, "transfer recorded")
}

func (h *TransactionHandler) reply(w http.ResponseWriter, r *http.Request, tx models.Transaction, err error, message string) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, message, tx)
}
