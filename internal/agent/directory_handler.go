package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/directoryai/directoryai/internal/audit"
	"github.com/directoryai/directoryai/internal/models"
	"github.com/directoryai/directoryai/internal/store"
	"github.com/directoryai/directoryai/internal/tools"
)

const snapshotTTL = 30 * time.Second

// snapshotCache holds the pre-built system prompt carrying a directory
// snapshot (user count). Refreshed on a short TTL since every chat turn
// can mutate the directory.
type snapshotCache struct {
	mu        sync.RWMutex
	prompt    string
	expiresAt time.Time
	sf        singleflight.Group // deduplicate concurrent refreshes
}

func (c *snapshotCache) get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prompt == "" || time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.prompt, true
}

func (c *snapshotCache) set(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = prompt
	c.expiresAt = time.Now().Add(snapshotTTL)
}

const baseSystemPrompt = `You are a directory management assistant.

You can perform CRUD operations (Create, Read, Update, Delete) on a user directory.
When a user asks to perform an action, call the appropriate tool.
When you get the result from the tool, present it to the user in a clear and friendly manner.

Available operations:
- Create User: add a new user with name and email
- Get User: retrieve a specific user by their ID
- Update User: modify an existing user's name and/or email
- Delete User: remove a user from the directory
- List Users: show all users in the directory
- Delete All Users: remove every user (only when explicitly asked; cannot be undone)
- Seed Users: add sample users to an empty directory

RULES:
1. Never invent user IDs. Look them up with list_users when unsure.
2. Only call delete_all_users when the user explicitly asks to clear everything.
3. Report tool results faithfully, including "not found" outcomes.`

// DirectoryHandler orchestrates one chat turn against the user directory
type DirectoryHandler struct {
	agent       *DirectoryAgent
	users       *store.UserStore
	auditLogger *audit.Logger
	snapshot    *snapshotCache
}

func NewDirectoryHandler(agent *DirectoryAgent, users *store.UserStore, auditLogger *audit.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		agent:       agent,
		users:       users,
		auditLogger: auditLogger,
		snapshot:    &snapshotCache{},
	}
}

// buildSystemPrompt returns the persona prompt with a cached directory
// snapshot appended. Concurrent cache misses share a single store query
// via singleflight.
func (h *DirectoryHandler) buildSystemPrompt(ctx context.Context) string {
	if prompt, ok := h.snapshot.get(); ok {
		log.Debug().Msg("snapshot cache hit")
		return prompt
	}

	v, err, _ := h.snapshot.sf.Do("snapshot", func() (interface{}, error) {
		// Double-check inside singleflight in case another goroutine
		// already populated it while we were waiting to enter.
		if prompt, ok := h.snapshot.get(); ok {
			return prompt, nil
		}

		count, err := h.users.Count(ctx)
		if err != nil {
			return baseSystemPrompt, nil // soft fail, don't cache
		}

		prompt := fmt.Sprintf("%s\n\nThe directory currently contains %d users.", baseSystemPrompt, count)
		h.snapshot.set(prompt)
		return prompt, nil
	})

	if err != nil || v == nil {
		return baseSystemPrompt
	}
	return v.(string)
}

// Handle runs the agent loop for one chat request
func (h *DirectoryHandler) Handle(ctx context.Context, req *models.ChatRequest, apiKey string) (*models.ChatResponse, error) {
	start := time.Now()
	metadata := map[string]interface{}{
		"model":  h.agent.Model(),
		"method": "agent",
	}

	agentTools := []tools.Tool{
		tools.CreateUserTool(h.users),
		tools.GetUserTool(h.users),
		tools.ListUsersTool(h.users),
		tools.UpdateUserTool(h.users),
		tools.DeleteUserTool(h.users),
		tools.DeleteAllUsersTool(h.users),
		tools.SeedUsersTool(h.users),
	}

	systemPrompt := h.buildSystemPrompt(ctx)

	agentCtx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
	defer cancel()

	answer, toolsUsed, err := h.agent.Run(agentCtx, systemPrompt, req.Prompt, agentTools)
	execTimeMs := time.Since(start).Milliseconds()
	h.auditLogger.LogAgentRequest(req.Prompt, apiKey, toolsUsed, err == nil, execTimeMs)

	if err != nil {
		return nil, fmt.Errorf("agent run: %w", err)
	}

	metadata["tools_used"] = toolsUsed
	metadata["execution_time_ms"] = execTimeMs

	return &models.ChatResponse{
		Status:        "success",
		Prompt:        req.Prompt,
		Answer:        &answer,
		AgentMetadata: metadata,
	}, nil
}
