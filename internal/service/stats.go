package service

import (
	"math"
	"sort"
	"strconv"

	"github.com/shenikar/electricity_status_map/internal/models"
)

// roundCoord округляет координату до одного знака после запятой.
// Один знак - примерно 11 км по экватору, достаточно грубо для группировки по "регионам".
// Половинки округляются вверх, а не от нуля, и результат никогда не бывает
// отрицательным нулем: -0.04 и 0.04 попадают в один регион "0.0".
func roundCoord(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

// regionKey строит ключ региона из округленных координат, например "40.7,-74.0"
func regionKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 1, 64) + "," + strconv.FormatFloat(lon, 'f', 1, 64)
}

// BuildStatistics агрегирует сообщения в общую и порегионную статистику.
// Регионы упорядочены по убыванию числа сообщений; при равенстве - по ключу региона,
// чтобы результат был детерминированным.
func BuildStatistics(reports []*models.Report) *models.StatisticsReport {
	overall := models.OverallStats{}
	buckets := make(map[string]*models.RegionStats)

	for _, report := range reports {
		overall.Total++
		if report.HasElectricity {
			overall.WithElectricity++
		} else {
			overall.WithoutElectricity++
		}

		lat := roundCoord(report.Latitude)
		lon := roundCoord(report.Longitude)
		key := regionKey(lat, lon)

		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.RegionStats{
				Region:    key,
				Latitude:  lat,
				Longitude: lon,
			}
			buckets[key] = bucket
		}
		bucket.Total++
		if report.HasElectricity {
			bucket.WithElectricity++
		} else {
			bucket.WithoutElectricity++
		}
	}

	if overall.Total > 0 {
		overall.Percentage = 100 * float64(overall.WithElectricity) / float64(overall.Total)
	}

	regions := make([]models.RegionStats, 0, len(buckets))
	for _, bucket := range buckets {
		// Деление безопасно: регион существует только при Total > 0
		bucket.Percentage = 100 * float64(bucket.WithElectricity) / float64(bucket.Total)
		regions = append(regions, *bucket)
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Total != regions[j].Total {
			return regions[i].Total > regions[j].Total
		}
		return regions[i].Region < regions[j].Region
	})

	return &models.StatisticsReport{
		Overall: overall,
		Regions: regions,
	}
}
