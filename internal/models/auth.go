package models

import "github.com/golang-jwt/jwt/v5"

// AdminRole is the only role allowed on maintenance routes.
const AdminRole = "admin"

// AdminClaims is the JWT payload accepted on maintenance routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
