package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourhub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID, email string, isAdmin bool, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		Email:   email,
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return tokenString
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	handler(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	r.AddCookie(&http.Cookie{Name: "jwt", Value: signedToken(t, "u-1", "a@b.co", false, -time.Minute)})
	handler(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateCookie(t *testing.T) {
	var gotUserID, gotEmail string
	var gotAdmin bool
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
		gotEmail, _ = r.Context().Value(globals.EmailKey).(string)
		gotAdmin, _ = r.Context().Value(globals.AdminKey).(bool)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	r.AddCookie(&http.Cookie{Name: "jwt", Value: signedToken(t, "u-7", "bob@example.com", true, time.Hour)})
	handler(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-7", gotUserID)
	assert.Equal(t, "bob@example.com", gotEmail)
	assert.True(t, gotAdmin)
}

func TestAuthenticateBearerHeader(t *testing.T) {
	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "u-2", "c@d.co", false, time.Hour))
	handler(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequireAdmin(t *testing.T) {
	handler := Authenticate(RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("NonAdmin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/bookings/b1/status", nil)
		r.AddCookie(&http.Cookie{Name: "jwt", Value: signedToken(t, "u-3", "e@f.co", false, time.Hour)})
		handler(w, r, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/bookings/b1/status", nil)
		r.AddCookie(&http.Cookie{Name: "jwt", Value: signedToken(t, "u-4", "g@h.co", true, time.Hour)})
		handler(w, r, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
