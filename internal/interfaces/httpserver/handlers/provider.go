package handlers

import (
	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/interfaces/httpserver/handlers/chathandler"
)

// Provider bundles the HTTP handlers for route registration.
type Provider struct {
	Chat *chathandler.ChatHandler
}

func NewProvider(chatService chathandler.ChatService, log zerolog.Logger) *Provider {
	return &Provider{
		Chat: chathandler.NewChatHandler(chatService, log),
	}
}
