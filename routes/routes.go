package routes

import (
	"econdash_backend/controllers"
	"econdash_backend/middleware"
	"econdash_backend/services/aggregator"
	"econdash_backend/services/notify"
	"econdash_backend/services/stockdata"
	"econdash_backend/services/worldbank"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the shared components the route layer wires into controllers
type Deps struct {
	DB         *gorm.DB
	Aggregator *aggregator.Aggregator
	Scheduler  controllers.SchedulerStatus
	Stocks     *stockdata.Service
	WorldBank  *worldbank.Client
	Hub        *notify.Hub
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, deps Deps) {
	dashboardController := controllers.NewDashboardController(deps.DB, deps.Stocks)
	metricsController := controllers.NewMetricsController(deps.DB, deps.WorldBank)
	updateController := controllers.NewUpdateController(deps.DB, deps.Aggregator, deps.Scheduler)
	financialController := controllers.NewFinancialController(deps.DB)
	authController := controllers.NewAuthController(deps.DB)

	api := router.Group("/api")
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardController.GetSummary)
		}

		metrics := api.Group("/metrics")
		{
			metrics.GET("/economic-indicators", metricsController.GetEconomicIndicators)
			metrics.GET("/stock-data", metricsController.GetStockData)
			metrics.GET("/regional-gdp", metricsController.GetRegionalGDP)
			metrics.GET("/history", dashboardController.GetMetricHistory)
		}

		api.POST("/update", updateController.TriggerUpdate)
		api.GET("/update/logs", updateController.GetUpdateLogs)
		api.GET("/status", updateController.GetStatus)
		api.GET("/export/csv", metricsController.ExportCSV)

		api.POST("/auth/login", authController.Login)

		financials := api.Group("/financials")
		{
			financials.GET("", financialController.GetFinancials)

			protected := financials.Group("")
			protected.Use(middleware.JWTAuthMiddleware())
			{
				protected.POST("", financialController.UpsertFinancial)
				protected.DELETE("/:period", financialController.DeleteFinancial)
			}
		}
	}

	// Dashboard refresh notifications
	router.GET("/ws", deps.Hub.HandleConnection)
}
