package chathandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/chat"
	"salespilot/services/chat-api/internal/domain/conversation"
	chatrequest "salespilot/services/chat-api/internal/interfaces/httpserver/requests/chat"
	"salespilot/services/chat-api/internal/interfaces/httpserver/responses"
)

// defaultHistoryLimit is the number of turns returned when the caller does
// not ask for a specific amount.
const defaultHistoryLimit = 20

// ChatService is the slice of the chat service the handler needs.
type ChatService interface {
	Chat(ctx context.Context, userID, message, tenant string) (*chat.Result, error)
	History(ctx context.Context, userID string, limit int) ([]conversation.Turn, error)
}

// ChatResponse is the body returned by POST /v1/chat/:user_id.
type ChatResponse struct {
	Response      string `json:"response"`
	DebugPipeline any    `json:"debug_pipeline,omitempty"`
}

// HistoryResponse is the body returned by GET /v1/history/:user_id.
type HistoryResponse struct {
	UserID  string              `json:"user_id"`
	History []conversation.Turn `json:"history"`
}

type ChatHandler struct {
	service ChatService
	log     zerolog.Logger
}

func NewChatHandler(service ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat_handler").Logger(),
	}
}

// Chat handles POST /v1/chat/:user_id.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		responses.BadRequest(c, "user_id is required")
		return
	}

	var req chatrequest.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Chat(c.Request.Context(), userID, req.Message, req.Company)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("chat turn failed")
		responses.InternalError(c, "failed to process chat request")
		return
	}

	resp := ChatResponse{Response: result.Response}
	if len(result.Pipeline) > 0 {
		resp.DebugPipeline = result.Pipeline
	}
	c.JSON(http.StatusOK, resp)
}

// History handles GET /v1/history/:user_id.
func (h *ChatHandler) History(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		responses.BadRequest(c, "user_id is required")
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			responses.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	turns, err := h.service.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("history lookup failed")
		responses.InternalError(c, "failed to load chat history")
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{UserID: userID, History: turns})
}
