package auth

import (
	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     enums.Role
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. Every request
// is trusted to carry the tenant, user, and role resolved at login time.
type AccessTokenClaims struct {
	UserID   uuid.UUID  `json:"user_id"`
	TenantID uuid.UUID  `json:"tenant_id"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the capability handed to downstream services.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     enums.Role
}

// Identity converts the claims into the request-scoped capability value.
func (c *AccessTokenClaims) Identity() Identity {
	if c == nil {
		return Identity{}
	}
	return Identity{UserID: c.UserID, TenantID: c.TenantID, Role: c.Role}
}
