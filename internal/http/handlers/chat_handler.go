// README: Chat completion handler (JSON reply or server-sent events).
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/ai"
)

type ChatHandler struct {
	llm     ai.LLMProvider
	timeout time.Duration
	log     *slog.Logger
}

func NewChatHandler(llm ai.LLMProvider, timeout time.Duration, log *slog.Logger) *ChatHandler {
	return &ChatHandler{llm: llm, timeout: timeout, log: log}
}

// Completion handles POST /api/chat/completion.
func (h *ChatHandler) Completion(c *gin.Context) {
	var req ai.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if !req.Stream {
		resp, err := h.llm.Complete(ctx, req)
		if err != nil {
			h.log.ErrorContext(ctx, "chat completion failed", "provider", h.llm.Name(), "err", err)
			writeChatError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, resp)
		return
	}

	events, err := h.llm.Stream(ctx, req)
	if err != nil {
		h.log.ErrorContext(ctx, "chat stream failed to start", "provider", h.llm.Name(), "err", err)
		writeChatError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	for {
		select {
		case <-ctx.Done():
			// Client still connected: the deadline hit, report it before closing.
			if c.Request.Context().Err() == nil {
				h.sse(c, ai.EventError, errorResponse{Error: "completion timed out"})
				h.sse(c, ai.EventClose, "")
			}
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case ai.EventMessage:
				h.sse(c, ai.EventMessage, ai.ChatResponse{Role: ai.RoleAssistant, Content: ev.Content})
			case ai.EventError:
				h.log.WarnContext(ctx, "chat stream error", "provider", h.llm.Name(), "err", ev.Err)
				h.sse(c, ai.EventError, errorResponse{Error: ev.Err.Error()})
			case ai.EventClose:
				h.sse(c, ai.EventClose, "")
				return
			}
		}
	}
}

func (h *ChatHandler) sse(c *gin.Context, event ai.StreamEventType, data any) {
	c.SSEvent(string(event), data)
	c.Writer.Flush()
}
