// Package testutil provides request, token and fixture helpers shared by
// handler and router tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

// AssertStatusCode checks if the response has the expected status code.
func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// AssertErrorMessage decodes an {"error": "..."} body and compares the message.
func AssertErrorMessage(t *testing.T, body []byte, expected string) {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if resp.Error != expected {
		t.Errorf("expected error %q, got %q", expected, resp.Error)
	}
}

// NewJSONRequest creates a request with a JSON encoded body. A nil payload
// produces an empty body.
func NewJSONRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal JSON: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes a response body into out.
func DecodeJSON(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

// SignAccessToken issues an HS256 bearer token for userID valid for an hour.
func SignAccessToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// NewUser builds a user fixture with a random id and an email derived from
// the username.
func NewUser(username string) models.User {
	return models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
	}
}
