package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// CategoryHandler owns the category endpoints.
type CategoryHandler struct {
	store storage.CategoryStore
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(store storage.CategoryStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// Register attaches category routes to the mux.
func (h *CategoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /categories", h.handleCreate)
	mux.HandleFunc("GET /categories", h.handleList)
	mux.HandleFunc("GET /categories/main", h.handleListTopLevel)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	// The category tree is two levels deep: a parent must exist and must
	// itself be top-level.
	if req.ParentID != nil {
		parent, err := h.store.CategoryByID(r.Context(), *req.ParentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "parent category does not exist")
				return
			}
			log.Printf("category create: fetch parent: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to create category")
			return
		}
		if parent.ParentID != nil {
			respondError(w, http.StatusBadRequest, "parent category must be top-level")
			return
		}
	}

	created, err := h.store.CreateCategory(r.Context(), models.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
		OwnerID:  &user.ID,
	})
	if err != nil {
		log.Printf("category create: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categories, err := h.store.CategoriesVisibleTo(r.Context(), user.ID)
	if err != nil {
		log.Printf("category list: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleListTopLevel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	categories, err := h.store.TopLevelCategories(r.Context(), user.ID)
	if err != nil {
		log.Printf("category list top-level: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}
