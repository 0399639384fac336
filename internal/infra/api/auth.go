package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Bearer token primitives =====

type AuthManager struct {
	secret []byte
}

func NewAuthManager(secret string) *AuthManager {
	return &AuthManager{secret: []byte(secret)}
}

// UserClaims is what the dashboard's session token carries. Subject is the
// user id.
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*UserClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return nil, errors.New("missing token")
	}
	if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("malformed authorization header")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (*UserClaims, error) {
	claims := &UserClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// ===== request identity plumbing =====

type ctxKey int

const ctxClaims ctxKey = iota

func withClaims(ctx context.Context, c *UserClaims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func claimsFrom(r *http.Request) *UserClaims {
	c, _ := r.Context().Value(ctxClaims).(*UserClaims)
	return c
}

func callerID(r *http.Request) string {
	if c := claimsFrom(r); c != nil {
		return c.Subject
	}
	return ""
}
