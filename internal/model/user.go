package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Country      string    `json:"country"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the identity attached to a request after a bearer token has
// been verified. The account/credential flags always start out active: this
// service has no account locking or credential expiry.
type Principal struct {
	Username          string   `json:"username"`
	Authorities       []string `json:"authorities"`
	AccountActive     bool     `json:"account_active"`
	CredentialsActive bool     `json:"credentials_active"`
}

func NewPrincipal(u User) Principal {
	return Principal{
		Username:          u.Username,
		Authorities:       []string{string(u.Role)},
		AccountActive:     true,
		CredentialsActive: true,
	}
}
