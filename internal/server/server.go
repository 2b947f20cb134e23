package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the API routes. CORS is wide open; the API carries no
// credentials and the frontend is served from a different origin.
func NewRouter(handler *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/recommendations", handler.Recommendations)
		v1.GET("/jobs", handler.Jobs)
		v1.GET("/meta/skills", handler.Skills)
		v1.GET("/meta/locations", handler.Locations)
		v1.GET("/health", handler.Health)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
