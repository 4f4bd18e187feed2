/*
Package user contains the identity shared by REST handlers and realtime sessions.
*/
package user

// Role values.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity attached to a request or a realtime connection.
type User struct {
	// ID is the account UUID.
	ID string `json:"id"`

	// Username is unique and doubles as the display name.
	Username string `json:"username"`

	// Role is RoleUser or RoleAdmin.
	Role string `json:"role"`
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
