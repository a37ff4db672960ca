package account

import "time"

// RoleUser is the only role the patron client registers with.
const RoleUser = "user"

// Account is a registered patron.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Credentials is the login/registration form as sent over the wire.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token,omitempty"`
}
