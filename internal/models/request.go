package models

// CreateUserRequest for POST /api/v1/users
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest for PATCH /api/v1/users/{user_id}.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Empty reports whether the request carries no fields to change.
func (r *UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Email == nil
}

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	Prompt  string `json:"prompt"`
	Timeout int    `json:"timeout"`
}

func (r *ChatRequest) SetDefaults() {
	if r.Timeout == 0 {
		r.Timeout = 120
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}
