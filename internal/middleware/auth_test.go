package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "jwt-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func invoke(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuth(secret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, rec, handler(c)
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-9",
		"name":  "Asha",
		"email": "asha@example.com",
	}, secret)

	c, rec, err := invoke(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-9", c.Get("user_id"))
	assert.Equal(t, "Asha", c.Get("user_name"))
	assert.Equal(t, "asha@example.com", c.Get("user_email"))
}

func TestJWTAuthRejections(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong key", "Bearer " + signToken(t, jwt.MapClaims{"sub": "user-9"}, "other-key")},
		{"missing subject", "Bearer " + signToken(t, jwt.MapClaims{"name": "Asha"}, secret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := invoke(t, tt.authorization)
			require.Error(t, err)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}
