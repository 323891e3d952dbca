// Package web renders the prompt form and list as server-side HTML.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/PressureTank/promptbase/backend/prompt"
)

//go:embed templates/*.html
var templateFS embed.FS

var index = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type page struct {
	Prompts    []prompt.Prompt
	Options    prompt.ListOptions
	SortKeys   []prompt.SortKey
	SortOrders []prompt.SortOrder
	Notice     string
	Error      string
}

// FormHandler serves the HTML form. Every write redirects back to the
// list with a notice or error message in the query string.
type FormHandler struct {
	db     prompt.Database
	logger *zap.Logger
}

func NewFormHandler(db prompt.Database, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		db:     db,
		logger: logger,
	}
}

func (h *FormHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.IndexHandler).Methods("GET")
	r.HandleFunc("/prompts", h.AddHandler).Methods("POST")
	r.HandleFunc("/prompts/{id}/favorite", h.FavoriteHandler).Methods("POST")
	r.HandleFunc("/prompts/{id}/delete", h.DeleteHandler).Methods("POST")
}

func (h *FormHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := page{
		SortKeys:   []prompt.SortKey{prompt.SortCreatedAt, prompt.SortTitle, prompt.SortIsFavorite},
		SortOrders: []prompt.SortOrder{prompt.Descending, prompt.Ascending},
		Notice:     q.Get("notice"),
		Error:      q.Get("error"),
		Prompts:    []prompt.Prompt{},
	}

	opts, err := prompt.OptionsFromQuery(r)
	if err != nil {
		data.Error = "Unknown sort option"
		opts = prompt.ListOptions{Search: q.Get("q")}
		opts.Normalize()
	}
	data.Options = opts

	prompts, err := h.db.ListPrompts(r.Context(), opts)
	if err != nil {
		h.logger.Error("Error listing prompts", zap.Error(err))
		data.Error = "Could not load prompts"
	} else {
		data.Prompts = prompts
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := index.Execute(w, data); err != nil {
		h.logger.Error("Error rendering index", zap.Error(err))
	}
}

func (h *FormHandler) AddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "error", "Invalid form submission")
		return
	}

	favorite, _ := strconv.ParseBool(r.PostForm.Get("is_favorite"))
	cmd := prompt.CreateCommand{
		Title:      r.PostForm.Get("title"),
		Prompt:     r.PostForm.Get("prompt"),
		IsFavorite: favorite,
	}

	if err := cmd.Validate(); err != nil {
		redirect(w, r, "error", "Please fill in both the title and the prompt.")
		return
	}

	if _, err := h.db.CreatePrompt(r.Context(), cmd); err != nil {
		h.logger.Error("Error adding prompt", zap.Error(err))
		redirect(w, r, "error", "Could not save prompt")
		return
	}

	redirect(w, r, "notice", "Prompt added successfully!")
}

func (h *FormHandler) FavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := prompt.PathID(r)
	if err != nil {
		redirect(w, r, "error", "Invalid prompt id")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "error", "Invalid form submission")
		return
	}
	favorite, _ := strconv.ParseBool(r.PostForm.Get("is_favorite"))

	if err := h.db.SetFavorite(r.Context(), id, favorite); err != nil {
		h.logger.Error("Error updating favorite", zap.Error(err))
		redirect(w, r, "error", "Could not update prompt")
		return
	}

	redirect(w, r, "", "")
}

func (h *FormHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := prompt.PathID(r)
	if err != nil {
		redirect(w, r, "error", "Invalid prompt id")
		return
	}

	if err := h.db.DeletePrompt(r.Context(), id); err != nil {
		h.logger.Error("Error deleting prompt", zap.Error(err))
		redirect(w, r, "error", "Could not delete prompt")
		return
	}

	redirect(w, r, "notice", "Prompt deleted")
}

func redirect(w http.ResponseWriter, r *http.Request, key, msg string) {
	target := "/"
	if key != "" {
		target += "?" + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
