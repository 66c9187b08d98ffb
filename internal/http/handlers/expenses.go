package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage"
)

const (
	recentExpenseLimit = 20
	defaultPageSize    = 10
)

// ExpenseHandler owns the expense CRUD and filter endpoints.
type ExpenseHandler struct {
	store      storage.ExpenseStore
	categories storage.CategoryStore
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(store storage.ExpenseStore, categories storage.CategoryStore) *ExpenseHandler {
	return &ExpenseHandler{store: store, categories: categories}
}

// Register attaches expense routes to the mux.
func (h *ExpenseHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /expenses", h.handleCreate)
	mux.HandleFunc("GET /expenses", h.handleListRecent)
	mux.HandleFunc("PUT /expenses/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /expenses/{id}", h.handleDelete)
	mux.HandleFunc("GET /expenses/filter", h.handleFilter)
}

func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	now := time.Now().UTC()
	transactionDate := now
	if req.TransactionDate != nil {
		transactionDate = req.TransactionDate.UTC()
	}
	expense := models.Expense{
		UserID:          user.ID,
		Amount:          req.Amount,
		TransactionDate: transactionDate,
		Description:     req.Description,
		PaymentType:     req.PaymentType,
		CreatedAt:       now,
	}

	created, err := h.store.CreateExpense(r.Context(), expense, h.resolveCategory(r, req.CategoryID), req.TagIDs)
	if err != nil {
		log.Printf("expense create: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *ExpenseHandler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	expenses, err := h.store.RecentExpenses(r.Context(), user.ID, recentExpenseLimit)
	if err != nil {
		log.Printf("expense list: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch expenses")
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	existing, ok := h.ownedExpense(w, r, user)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	existing.Amount = req.Amount
	existing.Description = req.Description
	existing.PaymentType = req.PaymentType
	if req.TransactionDate != nil {
		existing.TransactionDate = req.TransactionDate.UTC()
	}

	updated, err := h.store.UpdateExpense(r.Context(), existing, h.resolveCategory(r, req.CategoryID), req.TagIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "expense not found")
			return
		}
		log.Printf("expense update: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *ExpenseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	existing, ok := h.ownedExpense(w, r, user)
	if !ok {
		return
	}
	if err := h.store.DeleteExpense(r.Context(), existing.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("expense delete: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ExpenseHandler) handleFilter(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	var filter storage.ExpenseFilter
	if raw := query.Get("startDate"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		filter.StartDate = &day
	}
	if raw := query.Get("endDate"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}
		// Inclusive bound: the whole end day counts.
		end := day.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	filter.CategoryIDs = parseIDList(query["categoryIds"])
	filter.TagIDs = parseIDList(query["tagIds"])

	filter.Size = defaultPageSize
	if raw := query.Get("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			filter.Size = size
		}
	}
	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			filter.Page = page
		}
	}

	expenses, err := h.store.FilterExpenses(r.Context(), user.ID, filter)
	if err != nil {
		log.Printf("expense filter: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to filter expenses")
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

// ownedExpense loads the path expense and rejects callers who do not own it.
func (h *ExpenseHandler) ownedExpense(w http.ResponseWriter, r *http.Request, user models.User) (models.Expense, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return models.Expense{}, false
	}
	expense, err := h.store.ExpenseByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "expense not found")
			return models.Expense{}, false
		}
		log.Printf("expense fetch: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch expense")
		return models.Expense{}, false
	}
	if expense.UserID != user.ID {
		respondError(w, http.StatusForbidden, "not authorized to modify this expense")
		return models.Expense{}, false
	}
	return expense, true
}

// resolveCategory validates a requested category id, dropping references to
// categories that do not exist.
func (h *ExpenseHandler) resolveCategory(r *http.Request, categoryID *int64) *int64 {
	if categoryID == nil {
		return nil
	}
	if _, err := h.categories.CategoryByID(r.Context(), *categoryID); err != nil {
		return nil
	}
	return categoryID
}

// parseIDList accepts repeated params and comma-separated values alike.
func parseIDList(values []string) []int64 {
	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if id, err := strconv.ParseInt(part, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
