package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PressureTank/promptbase/backend/prompt"
)

type stubDB struct {
	prompts   []prompt.Prompt
	created   []prompt.CreateCommand
	favorites map[int64]bool
	deleted   []int64
	listed    prompt.ListOptions
	fail      error
}

func (s *stubDB) CreatePrompt(_ context.Context, cmd prompt.CreateCommand) (*prompt.Prompt, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.created = append(s.created, cmd)
	return &prompt.Prompt{ID: int64(len(s.created)), Title: cmd.Title, Prompt: cmd.Prompt}, nil
}

func (s *stubDB) ListPrompts(_ context.Context, opts prompt.ListOptions) ([]prompt.Prompt, error) {
	s.listed = opts
	if s.fail != nil {
		return nil, s.fail
	}
	return s.prompts, nil
}

func (s *stubDB) SetFavorite(_ context.Context, id int64, favorite bool) error {
	if s.fail != nil {
		return s.fail
	}
	if s.favorites == nil {
		s.favorites = map[int64]bool{}
	}
	s.favorites[id] = favorite
	return nil
}

func (s *stubDB) DeletePrompt(_ context.Context, id int64) error {
	if s.fail != nil {
		return s.fail
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func setupRouter(db prompt.Database) *mux.Router {
	r := mux.NewRouter()
	NewFormHandler(db, zap.NewNop()).Register(r)
	return r
}

func postForm(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexRendersPrompts(t *testing.T) {
	db := &stubDB{prompts: []prompt.Prompt{
		{ID: 7, Title: "Greeting", Prompt: "Hello, <name>!", IsFavorite: true, CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
	}}

	req := httptest.NewRequest("GET", "/?q=Gree&sort=title&order=asc", nil)
	w := httptest.NewRecorder()
	setupRouter(db).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Greeting")
	assert.Contains(t, body, "Hello, &lt;name&gt;!")
	assert.Contains(t, body, "2024-05-01 09:30:00")
	assert.Contains(t, body, `action="/prompts/7/delete"`)
	assert.Contains(t, body, "Unfavorite")
	assert.Equal(t, prompt.ListOptions{Search: "Gree", Sort: prompt.SortTitle, Order: prompt.Ascending}, db.listed)
}

func TestIndexShowsNotice(t *testing.T) {
	req := httptest.NewRequest("GET", "/?notice=Prompt+added+successfully%21", nil)
	w := httptest.NewRecorder()
	setupRouter(&stubDB{}).ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "Prompt added successfully!")
	assert.Contains(t, w.Body.String(), "No prompts yet.")
}

func TestIndexBadSortFallsBack(t *testing.T) {
	db := &stubDB{}
	req := httptest.NewRequest("GET", "/?sort=id", nil)
	w := httptest.NewRecorder()
	setupRouter(db).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown sort option")
	assert.Equal(t, prompt.SortCreatedAt, db.listed.Sort)
}

func TestIndexStorageError(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	setupRouter(&stubDB{fail: errors.New("down")}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load prompts")
}

func TestAddPrompt(t *testing.T) {
	db := &stubDB{}
	w := postForm(setupRouter(db), "/prompts", url.Values{"title": {"Greeting"}, "prompt": {"Hello"}, "is_favorite": {"true"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=Prompt+added+successfully%21", w.Header().Get("Location"))
	require.Len(t, db.created, 1)
	assert.Equal(t, prompt.CreateCommand{Title: "Greeting", Prompt: "Hello", IsFavorite: true}, db.created[0])
}

func TestAddPromptRequiresFields(t *testing.T) {
	db := &stubDB{}
	w := postForm(setupRouter(db), "/prompts", url.Values{"title": {"Greeting"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=")
	assert.Empty(t, db.created)
}

func TestAddPromptStorageError(t *testing.T) {
	db := &stubDB{fail: &prompt.StorageError{Op: "create prompt", Err: errors.New("down")}}
	w := postForm(setupRouter(db), "/prompts", url.Values{"title": {"a"}, "prompt": {"b"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?error=Could+not+save+prompt", w.Header().Get("Location"))
}

func TestFavoriteAndDelete(t *testing.T) {
	db := &stubDB{}
	r := setupRouter(db)

	w := postForm(r, "/prompts/3/favorite", url.Values{"is_favorite": {"true"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, map[int64]bool{3: true}, db.favorites)

	w = postForm(r, "/prompts/3/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []int64{3}, db.deleted)

	w = postForm(r, "/prompts/x/delete", nil)
	assert.Equal(t, "/?error=Invalid+prompt+id", w.Header().Get("Location"))
}
