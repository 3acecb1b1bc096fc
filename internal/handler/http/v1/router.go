package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для сообщений о наличии электричества
	reports := api.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("", h.listReports)
		reports.GET("/map", h.mapReports)
		reports.GET("/statistics", h.getStatistics)
	}

	// Маршруты геокодирования
	geocode := api.Group("/geocode")
	{
		geocode.GET("/reverse", h.reverseGeocode)
		geocode.GET("/search", h.searchGeocode)
	}

	// Лента изменений для живых представлений (карта, список)
	api.GET("/ws/reports", h.reportFeed)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
