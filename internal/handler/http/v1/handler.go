package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/electricity_status_map/internal/config"
	"github.com/shenikar/electricity_status_map/internal/geocoder"
	"github.com/shenikar/electricity_status_map/internal/realtime"
	"github.com/shenikar/electricity_status_map/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reportService service.ReportService
	geocoder      geocoder.Geocoder
	hub           *realtime.Hub
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(reportService service.ReportService, geo geocoder.Geocoder, hub *realtime.Hub, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		reportService: reportService,
		geocoder:      geo,
		hub:           hub,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary Create a new electricity report
// @Description Submit a report about electricity availability at a location. City and country are resolved via reverse geocoding on a best-effort basis.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report creation request"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToReportModel(input)
	if err := h.reportService.CreateReport(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(model))
}

// @Summary Get all reports
// @Description Get the full report history, newest first. Optional case-insensitive substring filter over comment, city and country.
// @Tags Reports
// @Accept json
// @Produce json
// @Param q query string false "Substring filter over comment, city and country"
// @Success 200 {array} ReportResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	reports, err := h.reportService.ListReports(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.WithError(err).Error("Failed to list reports from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Get reports for the map view
// @Description Get reports within the trailing time window, oldest first. A client may pin the window boundary computed at mount via the since parameter.
// @Tags Reports
// @Accept json
// @Produce json
// @Param since query string false "Window boundary, RFC3339; default now minus the configured window"
// @Success 200 {array} ReportResponse
// @Failure 400 {object} map[string]string "Invalid since parameter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/map [get]
func (h *Handler) mapReports(c *gin.Context) {
	log := h.logger.WithField("method", "mapReports")

	since := time.Now().Add(-time.Duration(h.cfg.MapWindowHours) * time.Hour)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.WithError(err).Warn("Invalid since parameter")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter, expected RFC3339"})
			return
		}
		since = parsed
	}

	reports, err := h.reportService.ListMapReports(c.Request.Context(), since)
	if err != nil {
		log.WithError(err).Error("Failed to list map reports from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Get electricity statistics
// @Description Get overall and per-region electricity availability statistics. Regions are one-decimal-degree coordinate buckets ordered by report count.
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} StatisticsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/statistics [get]
func (h *Handler) getStatistics(c *gin.Context) {
	log := h.logger.WithField("method", "getStatistics")

	stats, err := h.reportService.GetStatistics(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get statistics from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatisticsToResponse(stats))
}

// @Summary Reverse geocode coordinates
// @Description Resolve coordinates to a city/country pair. Returns the sentinel pair when the upstream geocoder is unavailable.
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} PlaceResponse
// @Failure 400 {object} map[string]string "Missing or invalid lat/lon"
// @Router /geocode/reverse [get]
func (h *Handler) reverseGeocode(c *gin.Context) {
	log := h.logger.WithField("method", "reverseGeocode")

	latRaw := c.Query("lat")
	lonRaw := c.Query("lon")
	if latRaw == "" || lonRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing lat or lon"})
		return
	}

	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be numbers"})
		return
	}

	place, err := h.geocoder.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		// Геокодирование best-effort: отдаем sentinel вместо ошибки
		log.WithError(err).Warn("Reverse geocoding failed, returning sentinel place")
		place = geocoder.UnknownPlace()
	}

	c.JSON(http.StatusOK, PlaceToResponse(place))
}

// @Summary Search a place by free text
// @Description Forward geocoding: resolve a free-text query to the best-match coordinates.
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param q query string true "Free-text place query"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]string "Missing query"
// @Failure 404 {object} map[string]string "No match found"
// @Failure 500 {object} map[string]string "Geocoder failure"
// @Router /geocode/search [get]
func (h *Handler) searchGeocode(c *gin.Context) {
	log := h.logger.WithField("method", "searchGeocode")

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
		return
	}

	result, err := h.geocoder.Search(c.Request.Context(), query)
	if err != nil {
		log.WithError(err).Error("Forward geocoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "geocoder unavailable"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no match found"})
		return
	}

	c.JSON(http.StatusOK, SearchResultToResponse(result))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
