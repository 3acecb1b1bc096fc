package models

// RegionStats - агрегированная статистика по одному региону.
// Регион определяется округлением координат до одного знака после запятой.
type RegionStats struct {
	Region             string  `json:"region"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Total              int     `json:"total"`
	WithElectricity    int     `json:"with_electricity"`
	WithoutElectricity int     `json:"without_electricity"`
	Percentage         float64 `json:"percentage"`
}

// OverallStats - суммарная статистика по всем сообщениям
type OverallStats struct {
	Total              int     `json:"total"`
	WithElectricity    int     `json:"with_electricity"`
	WithoutElectricity int     `json:"without_electricity"`
	Percentage         float64 `json:"percentage"`
}

// StatisticsReport - полный срез статистики для отдачи клиенту
type StatisticsReport struct {
	Overall OverallStats  `json:"overall"`
	Regions []RegionStats `json:"regions"`
}
