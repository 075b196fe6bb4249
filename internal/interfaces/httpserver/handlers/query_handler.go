package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rahul-004x/digger/internal/domain/query"
	"github.com/rahul-004x/digger/internal/infrastructure/auth"
	"github.com/rahul-004x/digger/internal/infrastructure/metrics"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver/dto"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

// QueryHandler serves source resolution and answer streaming.
type QueryHandler struct {
	resolver *query.Resolver
	streamer *query.Streamer
	log      zerolog.Logger
}

// NewQueryHandler builds the query handler.
func NewQueryHandler(resolver *query.Resolver, streamer *query.Streamer, log zerolog.Logger) *QueryHandler {
	return &QueryHandler{
		resolver: resolver,
		streamer: streamer,
		log:      log.With().Str("handler", "query").Logger(),
	}
}

// ResolveSources handles POST /v1/queries/sources.
func (h *QueryHandler) ResolveSources(c *gin.Context) {
	var req dto.ResolveSourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	params := query.ResolveParams{
		OwnerID:  auth.OwnerID(c),
		Question: req.Question,
	}
	if req.ConversationID != nil {
		id, err := uuid.Parse(*req.ConversationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid conversation_id"})
			return
		}
		params.ConversationID = &id
	}

	resolution, err := h.resolver.ResolveSources(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err, "resolve sources failed")
		return
	}

	c.JSON(http.StatusOK, dto.ResolveSourcesResponse{
		ConversationID:      resolution.ConversationID.String(),
		CreatedConversation: resolution.CreatedConversation,
		Sources:             dto.FromSources(resolution.Sources),
	})
}

// StreamAnswer handles POST /v1/queries/answer. The response is a server-sent
// event stream: each token arrives as an "answer" event, a provider failure as
// a single "error" event, and a final "done" event marks the end either way.
func (h *QueryHandler) StreamAnswer(c *gin.Context) {
	var req dto.StreamAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid conversation_id"})
		return
	}

	events, err := h.streamer.StreamAnswer(c.Request.Context(), query.StreamParams{
		OwnerID:        auth.OwnerID(c),
		Question:       req.Question,
		Sources:        dto.ToSources(req.Sources),
		ConversationID: conversationID,
	})
	if err != nil {
		h.respondError(c, err, "answer stream setup failed")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	status := "success"
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Type, payload)
		if canFlush {
			flusher.Flush()
		}
		switch event.Type {
		case query.EventAnswer:
			metrics.StreamTokensTotal.Inc()
		case query.EventError:
			status = "error"
		}
	}

	fmt.Fprint(c.Writer, "event: done\ndata: [DONE]\n\n")
	if canFlush {
		flusher.Flush()
	}
	metrics.AnswerStreamsTotal.WithLabelValues(status).Inc()
}

func (h *QueryHandler) respondError(c *gin.Context, err error, msg string) {
	platformerrors.LogError(h.log, err, msg)
	c.JSON(platformerrors.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
}
