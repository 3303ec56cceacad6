package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/requests")

	// === Acting-user Routes ===
	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListOwn)
		group.GET("/all", h.ListAll)
		group.GET("/:id", h.Get)
	}
}
