// Package audit logs security-relevant events with hashed identifiers so
// prompts and API keys never land in the logs verbatim.
package audit

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Logger struct {
	enabled bool
}

func NewLogger(enabled bool) *Logger {
	return &Logger{enabled: enabled}
}

// LogAgentRequest records one agent chat turn
func (a *Logger) LogAgentRequest(prompt, apiKey string, toolsUsed []string, success bool, executionTimeMs int64) {
	if !a.enabled {
		return
	}
	log.Info().
		Str("event", "agent_audit").
		Str("prompt_hash", hashStr(prompt)[:16]).
		Str("api_key_hash", hashStr(apiKey)[:16]).
		Strs("tools_used", toolsUsed).
		Bool("success", success).
		Int64("execution_time_ms", executionTimeMs).
		Msg("agent audit")
}

// LogMutation records a direct REST write against the store
func (a *Logger) LogMutation(op string, userID int64, apiKey string, affected int64, success bool, errMsg string) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "store_audit").
		Str("op", op).
		Int64("user_id", userID).
		Str("api_key_hash", hashStr(apiKey)[:16]).
		Int64("affected", affected).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("store audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
