// Package handlers translates HTTP requests into store operations and
// serializes results and errors as JSON. It owns no business logic.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"spendbook/models"
)

// ExpenseStore is the persistence contract the handlers depend on.
// *database.Store satisfies it.
type ExpenseStore interface {
	List(ctx context.Context, category string) ([]models.Expense, error)
	Get(ctx context.Context, id int) (*models.Expense, error)
	Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error)
	Update(ctx context.Context, id int, in models.ExpenseInput) (*models.Expense, error)
	Delete(ctx context.Context, id int) error
	Summary(ctx context.Context) (*models.Summary, error)
	Ping(ctx context.Context) error
}

// Handler holds the store and request-handling configuration.
type Handler struct {
	store   ExpenseStore
	logger  *slog.Logger
	debug   bool
	started time.Time
}

// New returns a Handler. With debug set, error responses include
// internal detail; production responses stay generic.
func New(store ExpenseStore, logger *slog.Logger, debug bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   store,
		logger:  logger,
		debug:   debug,
		started: time.Now(),
	}
}

// Register wires all routes onto the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET", "OPTIONS")
	r.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	r.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	r.HandleFunc("/expenses/summary", h.GetSummary).Methods("GET")
	r.HandleFunc("/expenses/{id}", h.GetExpense).Methods("GET")
	r.HandleFunc("/expenses/{id}", h.UpdateExpense).Methods("PUT")
	r.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	expense, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var in models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	expense, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.logger.Info("expense created", "id", expense.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var in models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	expense, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Summary(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// pathID parses the {id} route variable. A non-numeric id is a client
// error, reported as 400 before any store call.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return id, true
}
