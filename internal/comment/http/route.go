package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	g.POST("/items/:id/comment", identityMiddleware, h.Create)
}
