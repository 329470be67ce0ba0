package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/mocks"
	"github.com/ersonp/travel-tracker/internal/domain/services"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
	"github.com/ersonp/travel-tracker/internal/infrastructure/logging"
)

func newTestServer(t *testing.T) (*Server, *mocks.RelationalDB) {
	t.Helper()
	db := mocks.NewRelationalDB(
		entities.Country{Code: "FR", Name: "France"},
		entities.Country{Code: "JP", Name: "Japan"},
		entities.Country{Code: "DE", Name: "Germany"},
	)
	logger := logging.Discard()
	visited := handlers.NewVisitedHandler(services.NewVisitedService(db, db), logger)
	countries := handlers.NewCountryHandler(services.NewCountryService(db))

	srv, err := NewServer(config.Default().Server, visited, countries, db, logger)
	require.NoError(t, err)
	return srv, db
}

func postForm(t *testing.T, h http.Handler, path, country string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"country": {country}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestServer_Index(t *testing.T) {
	srv, db := newTestServer(t)
	db.Visited = []string{"FR", "JP"}

	rr := get(t, srv.Handler(), "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	assert.Contains(t, body, `<span id="visited-count">2</span>`)
	assert.Contains(t, body, `<option value="Germany">`)
	assert.Equal(t, []string{"FR", "JP"}, embeddedVisited(t, body))
	assert.NotContains(t, body, `class="error"`)
}

func TestServer_APIVisited(t *testing.T) {
	srv, db := newTestServer(t)
	db.Visited = []string{"JP", "FR", "JP"}

	rr := get(t, srv.Handler(), "/api/visited")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"countries":["JP","FR"]}`, rr.Body.String())
}

func TestServer_APIVisited_Empty(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv.Handler(), "/api/visited")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"countries":[]}`, rr.Body.String())
}

func TestServer_APIVisited_StorageFailure(t *testing.T) {
	srv, db := newTestServer(t)
	db.ListErr = errors.New("connection reset")

	rr := get(t, srv.Handler(), "/api/visited")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch visited countries"}`, rr.Body.String())
}

func TestServer_Add(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(db *mocks.RelationalDB)
		country  string
		status   int
		message  string
		expected []string
	}{
		{
			name:     "success redirects home",
			country:  "france",
			status:   http.StatusSeeOther,
			expected: []string{"FR"},
		},
		{
			name:     "unknown country",
			country:  "Atlantis",
			status:   http.StatusOK,
			message:  "Country name does not exist, try again.",
			expected: []string{},
		},
		{
			name:     "duplicate",
			setup:    func(db *mocks.RelationalDB) { db.Visited = []string{"FR"} },
			country:  "FRANCE",
			status:   http.StatusOK,
			message:  "Country has already been added, try again.",
			expected: []string{"FR"},
		},
		{
			name:     "storage failure",
			setup:    func(db *mocks.RelationalDB) { db.InsertErr = errors.New("connection refused") },
			country:  "France",
			status:   http.StatusInternalServerError,
			message:  "Failed to add country.",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, db := newTestServer(t)
			if tt.setup != nil {
				tt.setup(db)
			}

			rr := postForm(t, srv.Handler(), "/add", tt.country)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusSeeOther {
				assert.Equal(t, "/", rr.Header().Get("Location"))
			} else {
				body := rr.Body.String()
				assert.Contains(t, body, tt.message)
				assert.ElementsMatch(t, tt.expected, embeddedVisited(t, body))
			}
			assert.ElementsMatch(t, tt.expected, db.Visited)
		})
	}
}

func TestServer_Remove(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(db *mocks.RelationalDB)
		country string
		status  int
		message string
	}{
		{
			name:    "success redirects home",
			setup:   func(db *mocks.RelationalDB) { db.Visited = []string{"JP"} },
			country: "Japan",
			status:  http.StatusSeeOther,
		},
		{
			name:    "unknown country",
			country: "Narnia",
			status:  http.StatusOK,
			message: "Country name does not exist, try again.",
		},
		{
			name:    "not visited",
			country: "Japan",
			status:  http.StatusOK,
			message: "That country is not in your visited list.",
		},
		{
			name:    "storage failure",
			setup:   func(db *mocks.RelationalDB) { db.DeleteErr = errors.New("timeout") },
			country: "Japan",
			status:  http.StatusInternalServerError,
			message: "Failed to remove the country, try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, db := newTestServer(t)
			if tt.setup != nil {
				tt.setup(db)
			}

			rr := postForm(t, srv.Handler(), "/remove", tt.country)

			assert.Equal(t, tt.status, rr.Code)
			if tt.message != "" {
				assert.Contains(t, rr.Body.String(), tt.message)
			}
		})
	}
}

func TestServer_OversizedForm(t *testing.T) {
	srv, db := newTestServer(t)

	rr := postForm(t, srv.Handler(), "/add", strings.Repeat("a", maxFormBytes+1))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Country name does not exist")
	assert.Equal(t, 0, db.InsertCalls)
}

func TestServer_RerenderWithUnreadableVisitedSet(t *testing.T) {
	srv, db := newTestServer(t)
	db.Err = errors.New("database is down")

	rr := postForm(t, srv.Handler(), "/add", "France")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Failed to add country.")
	assert.Empty(t, embeddedVisited(t, body))
}

// France then Japan added, France removed: the API returns only Japan.
func TestServer_Scenario(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	assert.Equal(t, http.StatusSeeOther, postForm(t, h, "/add", "France").Code)
	assert.Equal(t, http.StatusSeeOther, postForm(t, h, "/add", "Japan").Code)
	assert.Equal(t, http.StatusSeeOther, postForm(t, h, "/remove", "France").Code)
	assert.Contains(t, postForm(t, h, "/add", "Atlantis").Body.String(), "Country name does not exist, try again.")

	rr := get(t, h, "/api/visited")
	assert.JSONEq(t, `{"countries":["JP"]}`, rr.Body.String())
}

func TestServer_Health(t *testing.T) {
	srv, db := newTestServer(t)

	rr := get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())

	db.PingErr = errors.New("no route to host")
	rr = get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rr.Body.String())
}

func TestServer_Static(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv.Handler(), "/static/map.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/visited")

	rr = get(t, srv.Handler(), "/static/missing.js")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv.Handler(), "/add")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestServer_Serve_GracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
