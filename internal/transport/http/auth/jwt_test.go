package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, secret, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	var seen string
	h := Middleware(secret)(func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec, seen
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	token, err := MintToken("secret", "u1", time.Hour)
	require.NoError(t, err)

	rec, userID := serve(t, "secret", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", userID)
}

func TestMiddlewareRejects(t *testing.T) {
	good, _ := MintToken("secret", "u1", time.Hour)
	expired, _ := MintToken("secret", "u1", -time.Minute)
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("secret"))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"missing":       "",
		"not bearer":    "Basic abc",
		"bad signature": "Bearer " + good + "x",
		"expired":       "Bearer " + expired,
		"no user id":    "Bearer " + noUser,
		"alg none":      "Bearer " + none,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, userID := serve(t, "secret", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, userID)
		})
	}
}
