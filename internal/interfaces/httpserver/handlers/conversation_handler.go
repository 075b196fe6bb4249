package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	conversationdomain "github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/infrastructure/auth"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver/dto"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

// ConversationHandler serves conversation history endpoints.
type ConversationHandler struct {
	service *conversationdomain.Service
	log     zerolog.Logger
}

// NewConversationHandler builds the conversation handler.
func NewConversationHandler(service *conversationdomain.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.service.List(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		h.respondError(c, err, "list conversations failed")
		return
	}

	out := make([]dto.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		out = append(out, dto.FromConversation(conv))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

// ListMessages handles GET /v1/conversations/:conversation_id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	id, ok := h.conversationID(c)
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), id, auth.OwnerID(c))
	if err != nil {
		h.respondError(c, err, "list messages failed")
		return
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, dto.FromMessage(msg))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// Delete handles DELETE /v1/conversations/:conversation_id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := h.conversationID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.OwnerID(c)); err != nil {
		h.respondError(c, err, "delete conversation failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) conversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid conversation_id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ConversationHandler) respondError(c *gin.Context, err error, msg string) {
	platformerrors.LogError(h.log, err, msg)
	c.JSON(platformerrors.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
}
