package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	api := router.Group("/api")
	{
		api.POST("/analyses", handler.CreateAnalysis)
		api.GET("/analyses", handler.ListAnalyses)
		api.GET("/analyses/:id", handler.GetAnalysis)
		api.POST("/analyses/batch", handler.SubmitBatch)
		api.POST("/irr", handler.SolveIRR)
		api.POST("/amortization", handler.Amortize)
		api.GET("/market-profiles", handler.GetMarketProfiles)
	}
}
