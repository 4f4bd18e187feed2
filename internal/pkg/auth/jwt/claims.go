package jwt

import "github.com/golang-jwt/jwt"

// Role values carried in the token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Payload defines the JWT claims issued at login. The token identifies the account;
// authorization decisions that depend on mutable state (team membership, chat flag)
// are always re-checked against the store.
type Payload struct {
	jwt.StandardClaims

	// ID is the account's UUID.
	ID string `json:"id"`

	// Username is the unique login name, also used as the display name in realtime sessions.
	Username string `json:"username"`

	// Role is either RoleUser or RoleAdmin.
	Role string `json:"role"`
}

// IsAdmin reports whether the token holder is an administrator.
func (p *Payload) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
