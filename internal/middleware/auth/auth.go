// Package auth verifies the bearer tokens issued by the hosted auth provider
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

// Context keys set by the middlewares of this package
const (
	UserIDKey  = "user_id"
	ProfileKey = "profile"
)

var (
	ErrMissingToken = errors.New("token required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the payload of a provider access token
type Claims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with the provider's secret
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a verifier. An empty issuer is not checked.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses token and returns the identity of its subject
func (v *Verifier) Verify(token string) (services.Identity, error) {
	if len(v.secret) == 0 {
		return services.Identity{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return services.Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return services.Identity{}, ErrInvalidToken
	}
	return services.Identity{
		UserID:   userID,
		Email:    claims.Email,
		Username: claims.UserMetadata.Username,
	}, nil
}

// tokenFrom reads "Authorization: Bearer <token>", or the token query
// parameter when allowQuery is set. Browsers cannot set headers on websockets.
func tokenFrom(c *gin.Context, allowQuery bool) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrInvalidToken
		}
		return strings.TrimSpace(token), nil
	}
	if allowQuery {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
	}
	return "", ErrMissingToken
}

// ProfileEnsurer loads or creates the profile of a verified identity
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, id services.Identity) (*profile.Profile, error)
}

// AdminChecker tells whether a user may use the admin surface
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID uuid.UUID) error
}

func authenticate(v *Verifier, profiles ProfileEnsurer, allowQuery bool) gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		token, err := tokenFrom(c, allowQuery)
		if err != nil {
			response.UnauthorizedError(c, err.Error())
			return
		}
		identity, err := v.Verify(token)
		if err != nil {
			log.Debug("Rejected token", "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
			response.UnauthorizedError(c, err.Error())
			return
		}

		p, err := profiles.EnsureProfile(c.Request.Context(), identity)
		if err != nil {
			response.FromError(c, err)
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(ProfileKey, p)
		c.Next()
	}
}

// Required rejects requests without a valid bearer token and makes sure the
// caller has a profile
func Required(v *Verifier, profiles ProfileEnsurer) gin.HandlerFunc {
	return authenticate(v, profiles, false)
}

// WebSocketRequired is Required that also accepts the token query parameter
func WebSocketRequired(v *Verifier, profiles ProfileEnsurer) gin.HandlerFunc {
	return authenticate(v, profiles, true)
}

// AdminRequired must run after Required
func AdminRequired(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := admins.RequireAdmin(c.Request.Context(), UserID(c)); err != nil {
			response.FromError(c, err)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user, or uuid.Nil outside authenticated routes
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// Profile returns the profile loaded by Required
func Profile(c *gin.Context) *profile.Profile {
	if v, ok := c.Get(ProfileKey); ok {
		if p, ok := v.(*profile.Profile); ok {
			return p
		}
	}
	return nil
}
