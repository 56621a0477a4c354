package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID   uuid.UUID
	ActorName string
	Role      enums.ActorRole
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
// The service does not authenticate users itself; it only records whichever
// actor the token names against status events.
type AccessTokenClaims struct {
	ActorID   uuid.UUID       `json:"actor_id"`
	ActorName string          `json:"actor_name"`
	Role      enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
