package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// UserResponse wraps a single record
type UserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user,omitempty"`
}

// UserListResponse is returned by GET /api/v1/users
type UserListResponse struct {
	Status string `json:"status"`
	Users  []User `json:"users"`
	Count  int    `json:"count"`
}

// AffectedResponse is returned by PATCH/DELETE on users.
// Affected is 0 when no row matched the identifier.
type AffectedResponse struct {
	Status   string `json:"status"`
	Affected int64  `json:"affected"`
	User     *User  `json:"user,omitempty"`
}

// ChatResponse is returned by POST /api/v1/chat
type ChatResponse struct {
	Status        string                 `json:"status"`
	Prompt        string                 `json:"prompt"`
	Answer        *string                `json:"answer,omitempty"`
	AgentMetadata map[string]interface{} `json:"agent_metadata"`
}
