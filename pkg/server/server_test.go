package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	e, err := newEcho(cfg, db)
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, path, contentType, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, config.NewForTest())

	rr := do(e, http.MethodGet, "/health", "", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestNotFound(t *testing.T) {
	e := newTestEcho(t, config.NewForTest())

	rr := do(e, http.MethodGet, "/nope", "", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}

func TestTrailingSlash(t *testing.T) {
	e := newTestEcho(t, config.NewForTest())

	for _, path := range []string{"/api/books", "/api/books/"} {
		rr := do(e, http.MethodGet, path, "", "", "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `[]`, rr.Body.String(), path)
	}
}

func TestTestRoutes_OnlyInTestEnvironment(t *testing.T) {
	cfg := config.NewForTest()
	cfg.Environment = config.EnvironmentProduction
	e := newTestEcho(t, cfg)

	rr := do(e, http.MethodPost, "/test/users", echo.MIMEApplicationJSON, `{"username":"x","password":"y"}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEndToEnd(t *testing.T) {
	e := newTestEcho(t, config.NewForTest())

	rr := do(e, http.MethodPost, "/api/users/register", echo.MIMEApplicationJSON, `{"username":"alice","email":"a@x.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	form := url.Values{"username": {"alice"}, "password": {"pw123"}}
	rr = do(e, http.MethodPost, "/api/users/login", echo.MIMEApplicationForm, form.Encode(), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	login := struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.Equal(t, "bearer", login.TokenType)
	token := login.AccessToken

	rr = do(e, http.MethodPost, "/api/books/admin/create", echo.MIMEApplicationJSON, `{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction"}`, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	book := struct {
		ID int `json:"id"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &book))
	bookID := strconv.Itoa(book.ID)

	rr = do(e, http.MethodPost, "/api/books/"+bookID+"/rate", echo.MIMEApplicationJSON, `{"rating":4}`, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = do(e, http.MethodPost, "/api/books/"+bookID+"/rate", echo.MIMEApplicationJSON, `{"rating":2}`, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(e, http.MethodPost, "/api/bookmarks/"+bookID, "", "", token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(e, http.MethodGet, "/api/books/"+bookID, "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := struct {
		AverageRating float64 `json:"average_rating"`
		UserRating    *int    `json:"user_rating"`
		IsBookmarked  bool    `json:"is_bookmarked"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.InDelta(t, 2.0, detail.AverageRating, 1e-9)
	require.NotNil(t, detail.UserRating)
	assert.Equal(t, 2, *detail.UserRating)
	assert.True(t, detail.IsBookmarked)

	rr = do(e, http.MethodGet, "/api/users/me", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"bookmarks_count":1`)

	rr = do(e, http.MethodGet, "/api/bookmarks/", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Dune"`)

	rr = do(e, http.MethodGet, "/api/books/genre/list/all", "", "", "")
	assert.JSONEq(t, `["Science Fiction"]`, rr.Body.String())
}

func TestTestRoutes(t *testing.T) {
	e := newTestEcho(t, config.NewForTest())

	rr := do(e, http.MethodPost, "/test/users", echo.MIMEApplicationJSON, `{"username":"tester","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := struct {
		AccessToken string `json:"access_token"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = do(e, http.MethodGet, "/api/users/me", "", "", created.AccessToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"tester@test.local"`)

	rr = do(e, http.MethodPost, "/test/books", echo.MIMEApplicationJSON, `{"title":"Emma","author":"Jane Austen"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(e, http.MethodDelete, "/test/data", "", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":{"bookmarks":0,"ratings":0,"books":1,"users":1}}`, rr.Body.String())

	// The token now points at a user that no longer exists.
	rr = do(e, http.MethodGet, "/api/users/me", "", "", created.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")
}
