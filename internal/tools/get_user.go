package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/directoryai/directoryai/internal/store"
)

// GetUserTool looks up a single user by ID
func GetUserTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "get_user",
		Description: "Retrieve a single user's details using their unique ID. Use this when asked to find or get a specific user.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "integer",
					"description": "The unique ID of the user to find",
				},
			},
			"required": []string{"user_id"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			id, ok := intArg(input, "user_id")
			if !ok {
				return "", fmt.Errorf("user_id is required")
			}

			u, err := us.Get(ctx, id)
			if err != nil {
				return "", fmt.Errorf("get user: %w", err)
			}
			if u == nil {
				return fmt.Sprintf("User with ID %d was not found.", id), nil
			}

			b, _ := json.Marshal(map[string]interface{}{
				"status": "found",
				"user":   u,
			})
			return string(b), nil
		},
	}
}

// ListUsersTool returns every user in the directory
func ListUsersTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "list_users",
		Description: "List all users in the directory. Use this when asked to list, show, or count users.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			users, err := us.List(ctx)
			if err != nil {
				return "", fmt.Errorf("list users: %w", err)
			}

			b, _ := json.Marshal(map[string]interface{}{
				"count": len(users),
				"users": users,
			})
			return string(b), nil
		},
	}
}
