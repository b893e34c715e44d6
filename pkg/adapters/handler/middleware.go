package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const authCookieName = "auth_token"

type ownerKey struct{}

// SessionClaims is the JWT payload. Subject is the profile ID.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the owner.
func IssueToken(secret []byte, ownerID, email string, ttl time.Duration) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func parseToken(secret []byte, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// tokenFromRequest reads the session cookie, falling back to a bearer token.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// OwnerID returns the authenticated profile ID, or "" for anonymous requests.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey{}).(string)
	return id
}

func withOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

type Middleware struct {
	jwtSecret []byte
	revoker   ports.SessionRevoker
}

func NewMiddleware(cfg *config.Config, revoker ports.SessionRevoker) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
		revoker:   revoker,
	}
}

// AuthMiddleware verifies the session token and puts the owner ID in the context
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			m.deny(w, r)
			return
		}

		claims, err := parseToken(m.jwtSecret, tokenString)
		if err != nil {
			m.deny(w, r)
			return
		}

		revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Msg("session revocation check failed")
			writeErrorMessage(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		if revoked {
			m.deny(w, r)
			return
		}

		// Token is valid, proceed
		next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), claims.Subject)))
	})
}

func (m *Middleware) deny(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
	} else {
		http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
	}
}

func isAPIRequest(r *http.Request) bool {
	// Simple heuristic: check if path starts with /api/
	return strings.HasPrefix(r.URL.Path, "/api/")
}
