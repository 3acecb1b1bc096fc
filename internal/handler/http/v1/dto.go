package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest DTO для создания сообщения о наличии электричества.
// Обязательные поля объявлены указателями, чтобы отличать отсутствующее
// значение от нулевого: false и координата 0 - валидные значения.
// @Description DTO для создания сообщения о наличии электричества
type CreateReportRequest struct {
	Latitude       *float64 `json:"latitude" validate:"required,latitude"`
	Longitude      *float64 `json:"longitude" validate:"required,longitude"`
	HasElectricity *bool    `json:"has_electricity" validate:"required"`
	Comment        string   `json:"comment,omitempty" validate:"omitempty,max=150"`
}

// ReportResponse DTO для ответа с информацией о сообщении
// @Description DTO для ответа с информацией о сообщении
type ReportResponse struct {
	ID             uuid.UUID `json:"id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	HasElectricity bool      `json:"has_electricity"`
	Comment        string    `json:"comment,omitempty"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	CreatedAt      time.Time `json:"created_at"`
}

// PlaceResponse DTO для ответа обратного геокодирования
// @Description DTO для ответа обратного геокодирования
type PlaceResponse struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// SearchResponse DTO для ответа прямого поиска места
// @Description DTO для ответа прямого поиска места
type SearchResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// RegionStatsResponse DTO для статистики одного региона
// @Description DTO для статистики одного региона
type RegionStatsResponse struct {
	Region             string  `json:"region"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Total              int     `json:"total"`
	WithElectricity    int     `json:"with_electricity"`
	WithoutElectricity int     `json:"without_electricity"`
	Percentage         float64 `json:"percentage"`
}

// OverallStatsResponse DTO для суммарной статистики
// @Description DTO для суммарной статистики
type OverallStatsResponse struct {
	Total              int     `json:"total"`
	WithElectricity    int     `json:"with_electricity"`
	WithoutElectricity int     `json:"without_electricity"`
	Percentage         float64 `json:"percentage"`
}

// StatisticsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatisticsResponse struct {
	Overall OverallStatsResponse  `json:"overall"`
	Regions []RegionStatsResponse `json:"regions"`
}
