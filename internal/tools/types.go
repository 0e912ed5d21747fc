// Package tools defines the Tool interface and shared types used by both
// the agent and individual tool implementations.
package tools

import (
	"context"
	"strconv"
)

// Tool represents a callable function the LLM can invoke
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}

// intArg reads a numeric argument from tool input. JSON numbers arrive as
// float64; models occasionally send them as strings too, so both are accepted.
func intArg(input map[string]interface{}, key string) (int64, bool) {
	switch v := input[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
