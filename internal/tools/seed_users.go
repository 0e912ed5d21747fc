package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/directoryai/directoryai/internal/store"
)

// SeedUsersTool populates an empty directory with sample users
func SeedUsersTool(us *store.UserStore) Tool {
	return Tool{
		Name:        "seed_users",
		Description: "Populate the directory with sample users if it is empty. Use this to add initial test data. Does nothing when users already exist.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			created, existing, err := us.Seed(ctx)
			if err != nil {
				return "", fmt.Errorf("seed users: %w", err)
			}
			if existing > 0 {
				return fmt.Sprintf("Directory already contains %d users. No sample data added.", existing), nil
			}
			b, _ := json.Marshal(map[string]interface{}{
				"status":        "seeded",
				"created_count": len(created),
				"created_users": created,
			})
			return string(b), nil
		},
	}
}
