package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/directoryai/directoryai/internal/store"
)

// DeleteUserTool removes a single user by ID
func DeleteUserTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "delete_user",
		Description: "Delete a user from the directory using their unique ID. Use this when asked to delete or remove a user.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "integer",
					"description": "The unique ID of the user to delete",
				},
			},
			"required": []string{"user_id"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			id, ok := intArg(input, "user_id")
			if !ok {
				return "", fmt.Errorf("user_id is required")
			}

			affected, err := us.Delete(ctx, id)
			if err != nil {
				return "", fmt.Errorf("delete user: %w", err)
			}
			if affected == 0 {
				return fmt.Sprintf("User with ID %d was not found, so nothing was deleted.", id), nil
			}
			return fmt.Sprintf("User with ID %d was deleted.", id), nil
		},
	}
}

// DeleteAllUsersTool clears the directory
func DeleteAllUsersTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "delete_all_users",
		Description: "Delete ALL users from the directory. Only use this when explicitly asked to clear or delete every user. This cannot be undone.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			deleted, err := us.DeleteAll(ctx)
			if err != nil {
				return "", fmt.Errorf("delete all users: %w", err)
			}
			b, _ := json.Marshal(map[string]interface{}{
				"status":        "deleted",
				"deleted_count": deleted,
			})
			return string(b), nil
		},
	}
}
