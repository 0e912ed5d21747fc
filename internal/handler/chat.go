package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/directoryai/directoryai/internal/agent"
	"github.com/directoryai/directoryai/internal/models"
)

// ChatHandler handles POST /api/v1/chat
type ChatHandler struct {
	directory       *agent.DirectoryHandler
	maxPromptLength int
}

func NewChatHandler(directory *agent.DirectoryHandler, maxPromptLength int) *ChatHandler {
	return &ChatHandler{directory: directory, maxPromptLength: maxPromptLength}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()

	if req.Prompt == "" {
		models.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if h.maxPromptLength > 0 && len(req.Prompt) > h.maxPromptLength {
		models.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("prompt exceeds maximum length of %d characters", h.maxPromptLength))
		return
	}

	if h.directory == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "AI agent is not configured")
		return
	}

	apiKey := r.Header.Get("X-API-Key")
	resp, err := h.directory.Handle(r.Context(), &req, apiKey)
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, resp)
}
