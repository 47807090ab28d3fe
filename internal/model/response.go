package model

type AuthResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type UserListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
