package v1

import (
	"github.com/shenikar/electricity_status_map/internal/geocoder"
	"github.com/shenikar/electricity_status_map/internal/models"
)

// DTOToReportModel преобразует DTO создания в доменную модель.
// Указатели к этому моменту уже проверены валидатором.
func DTOToReportModel(dto CreateReportRequest) *models.Report {
	return &models.Report{
		Latitude:       *dto.Latitude,
		Longitude:      *dto.Longitude,
		HasElectricity: *dto.HasElectricity,
		Comment:        dto.Comment,
	}
}

// ModelToReportResponse преобразует доменную модель в DTO для ответа
func ModelToReportResponse(model *models.Report) *ReportResponse {
	return &ReportResponse{
		ID:             model.ID,
		Latitude:       model.Latitude,
		Longitude:      model.Longitude,
		HasElectricity: model.HasElectricity,
		Comment:        model.Comment,
		City:           model.City,
		Country:        model.Country,
		CreatedAt:      model.CreatedAt,
	}
}

// ModelsToReportResponses преобразует слайс моделей в слайс DTO
func ModelsToReportResponses(models []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToReportResponse(model)
	}
	return responses
}

// PlaceToResponse преобразует результат геокодера в DTO для ответа
func PlaceToResponse(place geocoder.Place) PlaceResponse {
	return PlaceResponse{
		City:    place.City,
		Country: place.Country,
	}
}

// SearchResultToResponse преобразует результат поиска в DTO для ответа
func SearchResultToResponse(result *geocoder.SearchResult) SearchResponse {
	return SearchResponse{
		Latitude:    result.Latitude,
		Longitude:   result.Longitude,
		DisplayName: result.DisplayName,
	}
}

// StatisticsToResponse преобразует срез статистики в DTO для ответа
func StatisticsToResponse(stats *models.StatisticsReport) StatisticsResponse {
	regions := make([]RegionStatsResponse, len(stats.Regions))
	for i, region := range stats.Regions {
		regions[i] = RegionStatsResponse{
			Region:             region.Region,
			Latitude:           region.Latitude,
			Longitude:          region.Longitude,
			Total:              region.Total,
			WithElectricity:    region.WithElectricity,
			WithoutElectricity: region.WithoutElectricity,
			Percentage:         region.Percentage,
		}
	}
	return StatisticsResponse{
		Overall: OverallStatsResponse{
			Total:              stats.Overall.Total,
			WithElectricity:    stats.Overall.WithElectricity,
			WithoutElectricity: stats.Overall.WithoutElectricity,
			Percentage:         stats.Overall.Percentage,
		},
		Regions: regions,
	}
}
