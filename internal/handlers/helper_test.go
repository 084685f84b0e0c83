package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testEcho = func() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}()

// newTestContext builds an echo.Context backed by httptest
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return testEcho.NewContext(req, rec), rec
}

// authenticate stores JWT claims the way the auth middleware does
func authenticate(c echo.Context, u *models.User) {
	c.Set("user", &models.JwtCustomClaims{UserID: u.ID.Hex(), Username: u.Username})
}

// httpErrorCode unwraps the status code of an *echo.HTTPError, 0 otherwise
func httpErrorCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

// decodeBody parses a recorded JSON response body
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// dataField extracts a field from the response's data object
func dataField(t *testing.T, rec *httptest.ResponseRecorder, field string) interface{} {
	t.Helper()
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", rec.Body.String())
	}
	return data[field]
}

// mustObjectID parses a hex ObjectID or fails the test
func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("invalid ObjectID %q: %v", hex, err)
	}
	return id
}

func expectStatus(t *testing.T, err error, want int) {
	t.Helper()
	if got := httpErrorCode(err); got != want {
		t.Fatalf("expected HTTP %d, got %d (err: %v)", want, got, err)
	}
}

func expectOK(t *testing.T, err error, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != want {
		t.Fatalf("expected HTTP %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
