package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-004x/digger/internal/interfaces/httpserver/handlers"
)

// RegisterRoutes mounts the v1 API onto the given router group.
func RegisterRoutes(group *gin.RouterGroup, provider *handlers.Provider) {
	queries := group.Group("/queries")
	{
		queries.POST("/sources", provider.Query.ResolveSources)
		queries.POST("/answer", provider.Query.StreamAnswer)
	}

	conversations := group.Group("/conversations")
	{
		conversations.GET("", provider.Conversation.List)
		conversations.GET("/:conversation_id/messages", provider.Conversation.ListMessages)
		conversations.DELETE("/:conversation_id", provider.Conversation.Delete)
	}
}
