package api

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the plan API on router. A nil tokens leaves the API
// open; otherwise every /api/v1 route needs a bearer token.
func SetupRoutes(router *gin.Engine, b *bridge.Bridge, tokens service.TokenService) {
	planHandler := NewPlanHandler(b)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	if tokens != nil {
		apiV1.Use(AuthMiddleware(tokens))
	}

	plans := apiV1.Group("/plans")
	{
		plans.POST("/new", planHandler.NewPlan)
		plans.POST("/open", planHandler.OpenPlan)
		plans.POST("/save", planHandler.SavePlan)
		plans.POST("/draft", planHandler.SaveDraft)
		plans.POST("/validate", planHandler.ValidatePlan)
		plans.POST("/diff", planHandler.DiffPlans)

		// --- Segments ---
		plans.POST("/segments/add", planHandler.AddSegment)
		plans.POST("/segments/remove", planHandler.RemoveSegment)
		plans.POST("/segments/update", planHandler.UpdateSegment)

		// --- Days ---
		plans.POST("/days/add", planHandler.AddDay)
		plans.POST("/days/remove", planHandler.RemoveDay)
		plans.POST("/days/move", planHandler.MoveDay)

		// --- Groups ---
		plans.POST("/groups/get", planHandler.GetGroups)
		plans.POST("/groups/set", planHandler.AddGroup)
		plans.POST("/groups/remove", planHandler.RemoveGroup)

		// --- Dictionary ---
		plans.POST("/dictionary/set", planHandler.AddDictionaryEntry)
		plans.POST("/dictionary/remove", planHandler.RemoveDictionaryEntry)
		plans.POST("/dictionary/search", planHandler.SearchDictionary)
	}

	apiV1.GET("/dirs/:name", planHandler.Dirs)
}
