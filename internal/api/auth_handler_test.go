package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laev/remem-api/internal/mocks"
	"github.com/laev/remem-api/internal/service/auth"
)

func newAuthHandler(userStore *mocks.MemoryUserStore) *AuthHandler {
	jwtService := &mocks.MockJWTService{
		GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
			return "test-token-" + userID.String(), nil
		},
	}
	return NewAuthHandler(userStore, jwtService, auth.NewBcryptVerifier())
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := newAuthHandler(mocks.NewMemoryUserStore())

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email":"test@example.com","password":"correct horse battery staple"}`)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.Contains(t, resp.Token, "test-token-")
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := mocks.NewMemoryUserStore()
		handler := newAuthHandler(store)

		body := `{"email":"test@example.com","password":"correct horse battery staple"}`
		rr := postJSON(t, handler.Register, "/api/auth/register", body)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = postJSON(t, handler.Register, "/api/auth/register", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		handler := newAuthHandler(mocks.NewMemoryUserStore())

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email":"not-an-email","password":"correct horse battery staple"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("short password", func(t *testing.T) {
		handler := newAuthHandler(mocks.NewMemoryUserStore())

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email":"test@example.com","password":"short"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		handler := newAuthHandler(mocks.NewMemoryUserStore())

		rr := postJSON(t, handler.Register, "/api/auth/register", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	const (
		email    = "test@example.com"
		password = "correct horse battery staple"
	)

	registeredStore := func(t *testing.T) *mocks.MemoryUserStore {
		t.Helper()
		store := mocks.NewMemoryUserStore()
		handler := newAuthHandler(store)
		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email":"`+email+`","password":"`+password+`"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		return store
	}

	t.Run("success", func(t *testing.T) {
		handler := newAuthHandler(registeredStore(t))

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email":"`+email+`","password":"`+password+`"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		handler := newAuthHandler(registeredStore(t))

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email":"`+email+`","password":"definitely not the password"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		handler := newAuthHandler(registeredStore(t))

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email":"nobody@example.com","password":"`+password+`"}`)

		// Indistinguishable from a wrong password.
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		handler := newAuthHandler(registeredStore(t))

		rr := postJSON(t, handler.Login, "/api/auth/login", `{`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
