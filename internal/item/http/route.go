package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	// Search does not act on behalf of a user.
	group.GET("/search", h.Search)

	// === Acting-user Routes ===
	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
	}
}
