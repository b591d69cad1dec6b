package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fadhlanhapp/nexbill-backend/handlers"
	"github.com/fadhlanhapp/nexbill-backend/metrics"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, services *handlers.HandlerServices) {
	handlers.InitHandlers(services)

	router.Use(metrics.Middleware())
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/me", handlers.GetCurrentUser)

		// People and groups
		v1.GET("/people", handlers.ListPeople)
		v1.POST("/people", handlers.CreatePerson)
		v1.DELETE("/people/:id", handlers.DeletePerson)
		v1.GET("/groups", handlers.ListGroups)
		v1.POST("/groups", handlers.CreateGroup)
		v1.DELETE("/groups/:id", handlers.DeleteGroup)

		// Draft editor
		draft := v1.Group("/draft")
		{
			draft.GET("", handlers.GetDraft)
			draft.POST("/reset", handlers.ResetDraft)
			draft.PUT("/title", handlers.SetDraftTitle)
			draft.PUT("/tax", handlers.SetDraftTax)
			draft.PUT("/serviceCharge", handlers.SetDraftServiceCharge)
			draft.PUT("/participants", handlers.SetDraftParticipants)
			draft.POST("/items", handlers.AddDraftItem)
			draft.PATCH("/items/:id", handlers.UpdateDraftItem)
			draft.DELETE("/items/:id", handlers.RemoveDraftItem)
			draft.POST("/items/:id/toggle", handlers.ToggleItemAssignment)
			draft.GET("/split", handlers.GetDraftSplit)
			draft.POST("/scan", handlers.ScanReceipt)
			draft.POST("/finalize", handlers.FinalizeDraft)
		}

		// Bill history
		v1.GET("/bills", handlers.ListBills)
		v1.GET("/bills/:id", handlers.GetBill)
		v1.DELETE("/bills/:id", handlers.DeleteBill)

		// Spend
		v1.GET("/spend", handlers.GetSpend)
		v1.GET("/settlements", handlers.GetSettlements)
		v1.GET("/reports/spend.xlsx", handlers.ExportSpendReport)
	}
}
