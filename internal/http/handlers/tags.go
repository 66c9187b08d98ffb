package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// TagHandler owns the tag endpoints.
type TagHandler struct {
	store storage.TagStore
}

// NewTagHandler constructs the handler.
func NewTagHandler(store storage.TagStore) *TagHandler {
	return &TagHandler{store: store}
}

// Register attaches tag routes to the mux.
func (h *TagHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /tags", h.handleCreate)
	mux.HandleFunc("GET /tags", h.handleList)
}

func (h *TagHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	// User-created tags are never system tags.
	created, err := h.store.CreateTag(r.Context(), models.Tag{
		Name:     req.Name,
		IsSystem: false,
		OwnerID:  &user.ID,
	})
	if err != nil {
		log.Printf("tag create: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create tag")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *TagHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	tags, err := h.store.TagsVisibleTo(r.Context(), user.ID)
	if err != nil {
		log.Printf("tag list: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch tags")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}
