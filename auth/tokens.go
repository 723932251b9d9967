package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"coupleswipe_server/models"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityContextKey contextKey = "identity"

// TokenService issues and validates the bearer tokens that carry a client's
// identity (its email address).
type TokenService struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{Secret: []byte(secret), TokenTTL: ttl}
}

// Issue mints an HS256 token whose subject is the given email.
func (t *TokenService) Issue(email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", models.ErrUnauthenticated
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// Parse validates a token and returns the identity it carries.
func (t *TokenService) Parse(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	})
	if err != nil {
		return "", models.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", models.ErrUnauthenticated
	}
	return claims.Subject, nil
}

// Middleware resolves the caller's identity from the Authorization header
// and stores it on the request context. Requests without a valid bearer
// token are rejected.
func (t *TokenService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		email, err := t.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), email)))
	})
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityContextKey, NormalizeEmail(email))
}

// Identity returns the authenticated identity on the context, or
// ErrUnauthenticated when none is present.
func Identity(ctx context.Context) (string, error) {
	email, _ := ctx.Value(identityContextKey).(string)
	if email == "" {
		return "", models.ErrUnauthenticated
	}
	return email, nil
}

// NormalizeEmail lower-cases and trims an email so identity comparisons are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
