package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service.
// Multi-tenant invariant: TenantID must be present on every token; every
// routing call is scoped to it.
type Claims struct {
	jwt.RegisteredClaims

	UserID    int64     `json:"user_id"`
	TenantID  int64     `json:"tenant_id"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
}
