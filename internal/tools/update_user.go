package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/directoryai/directoryai/internal/store"
)

// UpdateUserTool overwrites the name and/or email of an existing user
func UpdateUserTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "update_user",
		Description: "Update the name and/or email for an existing user by ID. You can update just the name, just the email, or both; omitted fields are left unchanged.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "integer",
					"description": "The unique ID of the user to update",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The new name for the user (optional)",
				},
				"email": map[string]interface{}{
					"type":        "string",
					"description": "The new email address for the user (optional)",
				},
			},
			"required": []string{"user_id"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			id, ok := intArg(input, "user_id")
			if !ok {
				return "", fmt.Errorf("user_id is required")
			}

			var fields store.UserFields
			if name, ok := input["name"].(string); ok && name != "" {
				fields.Name = &name
			}
			if email, ok := input["email"].(string); ok && email != "" {
				fields.Email = &email
			}
			if fields.Name == nil && fields.Email == nil {
				return "", fmt.Errorf("at least one of name or email must be provided")
			}

			affected, err := us.Update(ctx, id, fields)
			if err != nil {
				if errors.Is(err, store.ErrDuplicateEmail) {
					return "Another user already has that email address.", nil
				}
				return "", fmt.Errorf("update user: %w", err)
			}
			if affected == 0 {
				return fmt.Sprintf("User with ID %d was not found, so nothing was updated.", id), nil
			}

			u, err := us.Get(ctx, id)
			if err != nil {
				return "", fmt.Errorf("read back user: %w", err)
			}
			b, _ := json.Marshal(map[string]interface{}{
				"status":   "updated",
				"affected": affected,
				"user":     u,
			})
			return string(b), nil
		},
	}
}
