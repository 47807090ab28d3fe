package model

// Field names follow the wire format expected by existing clients.
type LoginRequest struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"userName"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
}
