package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// BudgetHandler owns the per-month budget endpoints.
type BudgetHandler struct {
	store storage.BudgetStore
}

// NewBudgetHandler constructs the handler.
func NewBudgetHandler(store storage.BudgetStore) *BudgetHandler {
	return &BudgetHandler{store: store}
}

// Register attaches budget routes to the mux.
func (h *BudgetHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /budgets", h.handleUpsert)
	mux.HandleFunc("GET /budgets", h.handleLookup)
	mux.HandleFunc("GET /budgets/current", h.handleCurrent)
}

func (h *BudgetHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Year <= 0 || req.Month < 1 || req.Month > 12 {
		respondError(w, http.StatusBadRequest, "year must be positive and month between 1 and 12")
		return
	}

	budget, err := h.store.UpsertBudget(r.Context(), models.Budget{
		UserID: user.ID,
		Year:   req.Year,
		Month:  req.Month,
		Amount: req.Amount,
	})
	if err != nil {
		log.Printf("budget upsert: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) handleLookup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	year, errYear := strconv.Atoi(r.URL.Query().Get("year"))
	month, errMonth := strconv.Atoi(r.URL.Query().Get("month"))
	if errYear != nil || errMonth != nil {
		respondError(w, http.StatusBadRequest, "year and month query parameters are required")
		return
	}
	h.respondBudget(w, r, user.ID, year, month)
}

func (h *BudgetHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now := time.Now()
	h.respondBudget(w, r, user.ID, now.Year(), int(now.Month()))
}

func (h *BudgetHandler) respondBudget(w http.ResponseWriter, r *http.Request, userID int64, year, month int) {
	budget, err := h.store.BudgetByMonth(r.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no budget for that month")
			return
		}
		log.Printf("budget lookup: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch budget")
		return
	}
	respondJSON(w, http.StatusOK, budget)
}
