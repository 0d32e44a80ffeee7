package domain

import "time"

// User models the account holder as returned by the RosePay API.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is the bearer token plus the identity it belongs to. It is
// created on successful login, owned by the session store, and destroyed on
// logout or on the first rejected request.
type Credential struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
