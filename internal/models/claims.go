package models

import "github.com/golang-jwt/jwt/v4"

// Principal roles encoded in bearer tokens.
const (
	RoleUser    = "user"
	RoleCreator = "creator"
)

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// PrincipalID is the hex ObjectID of the user or creator.
type JwtCustomClaims struct {
	PrincipalID string `json:"principal_id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}
