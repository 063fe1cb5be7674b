// Package models defines the payload shapes exchanged with the expo backend
// and the client-side value types derived from them.
package models

// Operator roles as the backend spells them. Comparison is exact string
// equality; there is no role hierarchy.
const (
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
)

// User is the authenticated operator record as returned by the backend.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// LoginData is the payload of a successful /auth/login exchange.
type LoginData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
