package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/directoryai/directoryai/internal/store"
)

// CreateUserTool inserts a new user record
func CreateUserTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "create_user",
		Description: "Create a new user in the directory. Use this when asked to add or create a user. Requires a name and a unique email address.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The full name of the user",
				},
				"email": map[string]interface{}{
					"type":        "string",
					"description": "The unique email address for the user",
				},
			},
			"required": []string{"name", "email"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			name, _ := input["name"].(string)
			email, _ := input["email"].(string)
			if name == "" || email == "" {
				return "", fmt.Errorf("name and email are required")
			}

			u, err := us.Create(ctx, name, email)
			if err != nil {
				if errors.Is(err, store.ErrDuplicateEmail) {
					return fmt.Sprintf("A user with the email %q already exists.", email), nil
				}
				return "", fmt.Errorf("create user: %w", err)
			}

			b, _ := json.Marshal(map[string]interface{}{
				"status": "created",
				"user":   u,
			})
			return string(b), nil
		},
	}
}
