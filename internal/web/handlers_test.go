package web

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"battleship-server/internal/config"
	"battleship-server/internal/middleware"
	"battleship-server/internal/session"
)

func setupTestRouter() (chi.Router, *session.Store) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := session.NewStore(time.Hour, logger)
	cookies := config.NewCookies(func(args ...any) {})
	h := NewHandler(logger, store, cookies, rand.New(rand.NewPCG(1, 2)))

	r := chi.NewRouter()
	r.Use(middleware.Session(cookies))
	r.Get("/", h.Index)
	r.Post("/", h.Start)
	r.Get("/game", h.Game)
	r.Post("/game", h.Guess)
	r.Get("/new", h.Abandon)
	return r, store
}

func postForm(
	r chi.Router, target string, form url.Values, cookies []*http.Cookie,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(
		http.MethodPost, target, strings.NewReader(form.Encode()),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexRendersForm(t *testing.T) {
	r, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("have status %d, want 200", w.Code)
	}
	page := w.Body.String()
	for _, want := range []string{`name="size"`, `name="ships"`, `name="country"`} {
		if !strings.Contains(page, want) {
			t.Fatalf("index page missing %s", want)
		}
	}
}

func TestStartRejectsBadConfig(t *testing.T) {
	r, store := setupTestRouter()

	tests := []struct {
		name string
		form url.Values
	}{
		{"non-numeric", url.Values{"size": {"abc"}, "ships": {"1"}}},
		{"size too small", url.Values{"size": {"3"}, "ships": {"1"}}},
		{"too many ships", url.Values{"size": {"10"}, "ships": {"26"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(r, "/", tt.form, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("have status %d, want re-rendered form", w.Code)
			}
			if !strings.Contains(w.Body.String(), `class="error"`) {
				t.Fatal("form re-render has no error line")
			}
		})
	}
	if store.Count() != 0 {
		t.Fatal("rejected config created a session")
	}
}

func TestStartSetsCookieAndRedirects(t *testing.T) {
	r, store := setupTestRouter()

	w := postForm(r, "/", url.Values{
		"size": {"4"}, "ships": {"2"}, "country": {"Japan"},
	}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("have status %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/game" {
		t.Fatalf("have redirect to %q, want /game", loc)
	}
	if store.Count() != 1 {
		t.Fatalf("have %d sessions, want 1", store.Count())
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "delete" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie set")
	}

	// The cookie must bring up the board.
	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(sessionCookie)
	got := httptest.NewRecorder()
	r.ServeHTTP(got, req)
	if got.Code != http.StatusOK {
		t.Fatalf("have status %d, want 200", got.Code)
	}
	page := got.Body.String()
	if !strings.Contains(page, "Fleet of Japan") {
		t.Fatal("game page missing country line")
	}
	if !strings.Contains(page, "Turns remaining") {
		t.Fatal("game page missing turn counter")
	}
}

func TestGameWithoutSessionRedirects(t *testing.T) {
	r, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("have status %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("have redirect to %q, want /", loc)
	}
}

func startGame(t *testing.T, r chi.Router) *http.Cookie {
	t.Helper()
	w := postForm(r, "/", url.Values{
		"size": {"4"}, "ships": {"2"},
	}, nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "delete" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestGuessMessages(t *testing.T) {
	r, _ := setupTestRouter()
	cookie := startGame(t, r)

	// Out of range.
	w := postForm(r, "/game", url.Values{
		"row": {"9"}, "col": {"1"},
	}, []*http.Cookie{cookie})
	if !strings.Contains(w.Body.String(), "between 1 and 4") {
		t.Fatalf("missing range prompt: %s", w.Body.String())
	}

	// Non-numeric.
	w = postForm(r, "/game", url.Values{
		"row": {"x"}, "col": {"1"},
	}, []*http.Cookie{cookie})
	if !strings.Contains(w.Body.String(), "Invalid input") {
		t.Fatal("missing invalid input prompt")
	}

	// An applied guess, then its repeat.
	w = postForm(r, "/game", url.Values{
		"row": {"2"}, "col": {"2"},
	}, []*http.Cookie{cookie})
	first := w.Body.String()
	if !strings.Contains(first, "Hit!") && !strings.Contains(first, "Miss.") {
		t.Fatalf("missing guess feedback: %s", first)
	}
	if !strings.Contains(first, "last") {
		t.Fatal("applied guess not highlighted")
	}

	w = postForm(r, "/game", url.Values{
		"row": {"2"}, "col": {"2"},
	}, []*http.Cookie{cookie})
	if !strings.Contains(w.Body.String(), "already guessed") {
		t.Fatal("missing repeat feedback")
	}
}

func TestAbandonClearsSession(t *testing.T) {
	r, store := setupTestRouter()
	cookie := startGame(t, r)

	req := httptest.NewRequest(http.MethodGet, "/new", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("have status %d, want 303", w.Code)
	}
	if store.Count() != 0 {
		t.Fatal("abandoned session not deleted")
	}
}
