package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/services"
)

const secret = "test-secret"

type fakeProfiles struct {
	admins map[uuid.UUID]bool
	seen   []services.Identity
}

func (f *fakeProfiles) EnsureProfile(_ context.Context, id services.Identity) (*profile.Profile, error) {
	f.seen = append(f.seen, id)
	return profile.NewProfile(id.UserID, id.Email, id.Username), nil
}

func (f *fakeProfiles) RequireAdmin(_ context.Context, userID uuid.UUID) error {
	if !f.admins[userID] {
		return common.NewForbiddenError("admin access required")
	}
	return nil
}

func sign(t *testing.T, key string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(sub string) Claims {
	c := Claims{Email: "lou@example.com"}
	c.Subject = sub
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	c.UserMetadata.Username = "lou"
	return c
}

func newRouter(profiles *fakeProfiles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := NewVerifier(secret, "")
	r := gin.New()
	r.GET("/api/me", Required(v, profiles), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "username": Profile(c).Username})
	})
	r.GET("/api/ws", WebSocketRequired(v, profiles), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c).String())
	})
	r.GET("/api/admin/users", Required(v, profiles), AdminRequired(profiles), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequiredSetsUser(t *testing.T) {
	profiles := &fakeProfiles{}
	userID := uuid.New()
	token := sign(t, secret, jwt.SigningMethodHS256, validClaims(userID.String()))

	w := serve(newRouter(profiles), "/api/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"username":"lou"`)
	require.Len(t, profiles.seen, 1)
	assert.Equal(t, "lou@example.com", profiles.seen[0].Email)
}

func TestRequiredRejectsBadTokens(t *testing.T) {
	r := newRouter(&fakeProfiles{})
	userID := uuid.NewString()

	expired := validClaims(userID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := validClaims(userID)
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not.a.token",
		"wrong secret": "Bearer " + sign(t, "other", jwt.SigningMethodHS256, validClaims(userID)),
		"wrong method": "Bearer " + sign(t, secret, jwt.SigningMethodHS512, validClaims(userID)),
		"expired":      "Bearer " + sign(t, secret, jwt.SigningMethodHS256, expired),
		"no expiry":    "Bearer " + sign(t, secret, jwt.SigningMethodHS256, noExpiry),
		"subject":      "Bearer " + sign(t, secret, jwt.SigningMethodHS256, validClaims("42")),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(r, "/api/me", header).Code)
		})
	}
}

func TestWebSocketAcceptsQueryToken(t *testing.T) {
	r := newRouter(&fakeProfiles{})
	userID := uuid.New()
	token := sign(t, secret, jwt.SigningMethodHS256, validClaims(userID.String()))

	w := serve(r, "/api/ws?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/api/me?token="+token, "").Code)
}

func TestAdminRequired(t *testing.T) {
	admin := uuid.New()
	r := newRouter(&fakeProfiles{admins: map[uuid.UUID]bool{admin: true}})

	user := sign(t, secret, jwt.SigningMethodHS256, validClaims(uuid.NewString()))
	assert.Equal(t, http.StatusForbidden, serve(r, "/api/admin/users", "Bearer "+user).Code)

	boss := sign(t, secret, jwt.SigningMethodHS256, validClaims(admin.String()))
	assert.Equal(t, http.StatusNoContent, serve(r, "/api/admin/users", "Bearer "+boss).Code)
}

func TestVerifierIssuer(t *testing.T) {
	claims := validClaims(uuid.NewString())
	claims.Issuer = "https://auth.example.com"
	token := sign(t, secret, jwt.SigningMethodHS256, claims)

	_, err := NewVerifier(secret, "https://auth.example.com").Verify(token)
	assert.NoError(t, err)
	_, err = NewVerifier(secret, "https://evil.example.com").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = NewVerifier("", "").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
