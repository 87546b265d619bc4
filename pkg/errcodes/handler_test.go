package errcodes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePayload(t *testing.T) {
	t.Parallel()

	h := NewHandler()

	cases := []struct {
		name string
		err  error
		code int
		key  string
	}{
		{"typed error", NotFound("Book"), http.StatusNotFound, "not_found"},
		{"wrapped typed error", errors.WithStack(Conflict("Email or username already exists")), http.StatusBadRequest, "conflict"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "method_not_allowed"},
		{"generic error", errors.New("disk on fire"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			code, payload := h.generatePayload(tc.err)
			assert.Equal(tt, tc.code, code)
			body, ok := payload["error"].(map[string]interface{})
			require.True(tt, ok)
			assert.Equal(tt, tc.key, body["code"])
			assert.Equal(tt, tc.code, body["status_code"])
		})
	}
}

func TestHandle_UnauthorizedSetsChallengeHeader(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHandler().Handle(Unauthorized("Invalid token"), c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp.Error.Code)
	assert.Equal(t, "Invalid token", resp.Error.Message)
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("User"))
	assert.ErrorIs(t, err, NotFound("User"))
	assert.NotErrorIs(t, err, NotFound("Book"))
}
