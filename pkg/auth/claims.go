package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ProfileID uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to storefront clients.
// ProfileID is the only identity the engine needs; claim and submit
// operations refuse to run without it.
type AccessTokenClaims struct {
	ProfileID uuid.UUID `json:"profile_id"`
	jwt.RegisteredClaims
}
