package prompt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PromptHandler serves the JSON prompt API.
type PromptHandler struct {
	db     Database
	logger *zap.Logger
}

func NewPromptHandler(db Database, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{
		db:     db,
		logger: logger,
	}
}

// Register mounts the API routes on r.
func (h *PromptHandler) Register(r *mux.Router) {
	r.HandleFunc("/prompts", h.GetPromptsHandler).Methods("GET")
	r.HandleFunc("/prompts", h.AddPromptHandler).Methods("POST")
	r.HandleFunc("/prompts/{id}/favorite", h.FavoritePromptHandler).Methods("PUT")
	r.HandleFunc("/prompts/{id}", h.DeletePromptHandler).Methods("DELETE")
}

func (h *PromptHandler) GetPromptsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := OptionsFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	prompts, err := h.db.ListPrompts(r.Context(), opts)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prompts)
}

func (h *PromptHandler) AddPromptHandler(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := cmd.Validate(); err != nil {
		h.respondError(w, err)
		return
	}

	p, err := h.db.CreatePrompt(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) FavoritePromptHandler(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt id"})
		return
	}

	var body struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.db.SetFavorite(r.Context(), id, body.IsFavorite); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PromptHandler) DeletePromptHandler(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt id"})
		return
	}

	if err := h.db.DeletePrompt(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OptionsFromQuery reads q, sort and order from the request query string.
func OptionsFromQuery(r *http.Request) (ListOptions, error) {
	values := r.URL.Query()

	key, err := ParseSortKey(values.Get("sort"))
	if err != nil {
		return ListOptions{}, err
	}
	order, err := ParseSortOrder(values.Get("order"))
	if err != nil {
		return ListOptions{}, err
	}

	return ListOptions{
		Search: values.Get("q"),
		Sort:   key,
		Order:  order,
	}, nil
}

// PathID parses the {id} route variable.
func PathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *PromptHandler) respondError(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, status, map[string]any{"error": "validation failed", "fields": ve.Fields})
	case status == http.StatusInternalServerError:
		h.logger.Error("Error handling prompt request", zap.Error(err))
		respondJSON(w, status, map[string]string{"error": "storage error"})
	default:
		respondJSON(w, status, map[string]string{"error": err.Error()})
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
