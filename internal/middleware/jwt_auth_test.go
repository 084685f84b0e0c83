package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   "64b0c0ffee0000000000beef",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	return signed
}

func invoke(t *testing.T, authHeader string) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuthMiddleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c), c
}

func errorCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestValidToken(t *testing.T) {
	token := signToken(t, testSecret, "", time.Hour)
	err, c := invoke(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		t.Fatal("claims not stored in context")
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestMissingHeader(t *testing.T) {
	err, _ := invoke(t, "")
	if errorCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %v", err)
	}
}

func TestMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		err, _ := invoke(t, header)
		if errorCode(err) != http.StatusUnauthorized {
			t.Fatalf("expected 401 for header %q, got %v", header, err)
		}
	}
}

func TestWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", "", time.Hour)
	err, _ := invoke(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %v", err)
	}
	if he.Message != "Invalid token signature" {
		t.Fatalf("bad signature should be reported as such, got %v", he.Message)
	}
}

func TestExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, "", -time.Minute)
	err, _ := invoke(t, "Bearer "+token)
	if errorCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestRefreshTokenRejected(t *testing.T) {
	token := signToken(t, testSecret, "refresh", time.Hour)
	err, _ := invoke(t, "Bearer "+token)
	if errorCode(err) != http.StatusUnauthorized {
		t.Fatalf("refresh token must not authorize API calls, got %v", err)
	}
}
