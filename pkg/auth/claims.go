package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID          uuid.UUID
	Role            enums.Role
	ProfileComplete bool
	JTI             string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// profile_complete claim lets middleware short-circuit the completeness gate
// without a user lookup; it is refreshed whenever a new token is minted.
type AccessTokenClaims struct {
	UserID          uuid.UUID  `json:"user_id"`
	Role            enums.Role `json:"role"`
	ProfileComplete bool       `json:"profile_complete"`
	jwt.RegisteredClaims
}
