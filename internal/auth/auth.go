// Package auth resolves the caller's identity from a bearer access token
// issued by the auth provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

// TokenCookie is checked when no Authorization header is present.
const TokenCookie = "access_token"

// ErrNoToken is returned when the request carries no token at all.
var ErrNoToken = errors.New("auth: no token")

// Claims is the subset of the provider's access token we rely on.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens signed with the provider's shared secret.
type Verifier struct {
	secret   []byte
	audience string
	logger   *log.Logger
}

// NewVerifier builds a Verifier. An empty audience skips the aud check.
func NewVerifier(secret, audience string, logger *log.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: secret is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Verifier{secret: []byte(secret), audience: audience, logger: logger}, nil
}

// Verify parses the token and returns the user it was issued to.
func (v *Verifier) Verify(tokenString string) (domain.UserID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.UserID{}, err
	}
	if !token.Valid {
		return domain.UserID{}, jwt.ErrTokenInvalidClaims
	}
	return domain.ParseUserID(claims.Subject)
}

// Sign mints a token for userID. It is used by tests and local tooling.
func (v *Verifier) Sign(userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Middleware attaches the caller's identity to the request context when a
// valid token is present. Missing or invalid tokens leave the request
// anonymous; handlers decide whether identity is required.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractToken(r)
		if err == nil {
			userID, verr := v.Verify(raw)
			if verr == nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			} else {
				v.logger.Printf("auth: rejected token: %v", verr)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) (string, error) {
	const prefix = "Bearer "
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, prefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(header, prefix)); token != "" {
			return token, nil
		}
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", ErrNoToken
}

type contextKey struct{}

// WithUserID returns a context carrying userID.
func WithUserID(ctx context.Context, userID domain.UserID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the identity placed by Middleware, if any.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	userID, ok := ctx.Value(contextKey{}).(domain.UserID)
	return userID, ok
}

// ContextResolver resolves the current user from the request context.
type ContextResolver struct{}

// CurrentUserID implements userdata.IdentityResolver.
func (ContextResolver) CurrentUserID(ctx context.Context) (domain.UserID, bool) {
	return UserIDFromContext(ctx)
}
