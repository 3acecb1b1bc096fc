package service

import (
	"testing"

	"github.com/shenikar/electricity_status_map/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(lat, lon float64, hasElectricity bool) *models.Report {
	return &models.Report{
		Latitude:       lat,
		Longitude:      lon,
		HasElectricity: hasElectricity,
	}
}

func TestBuildStatistics_Empty(t *testing.T) {
	stats := BuildStatistics(nil)

	// Пустой набор не должен приводить к делению на ноль
	assert.Equal(t, 0, stats.Overall.Total)
	assert.Equal(t, 0.0, stats.Overall.Percentage)
	assert.Empty(t, stats.Regions)
}

func TestBuildStatistics_SameRegionBucket(t *testing.T) {
	// Две точки, округляющиеся до одного региона (40.7,-74.0)
	reports := []*models.Report{
		report(40.71, -74.00, true),
		report(40.74, -74.03, false),
	}

	stats := BuildStatistics(reports)

	require.Len(t, stats.Regions, 1)
	region := stats.Regions[0]
	assert.Equal(t, "40.7,-74.0", region.Region)
	assert.Equal(t, 2, region.Total)
	assert.Equal(t, 1, region.WithElectricity)
	assert.Equal(t, 1, region.WithoutElectricity)
	assert.Equal(t, 50.0, region.Percentage)

	assert.Equal(t, 2, stats.Overall.Total)
	assert.Equal(t, 1, stats.Overall.WithElectricity)
	assert.Equal(t, 50.0, stats.Overall.Percentage)
}

func TestBuildStatistics_DeterministicRegardlessOfOrder(t *testing.T) {
	forward := []*models.Report{
		report(40.71, -74.00, true),
		report(40.74, -74.03, false),
		report(50.45, 30.52, true),
	}
	backward := []*models.Report{forward[2], forward[1], forward[0]}

	statsA := BuildStatistics(forward)
	statsB := BuildStatistics(backward)

	assert.Equal(t, statsA, statsB)
}

func TestBuildStatistics_RegionOrdering(t *testing.T) {
	// Регион с большим числом сообщений идет первым,
	// при равенстве - сортировка по ключу региона
	reports := []*models.Report{
		report(50.45, 30.52, true),
		report(40.71, -74.00, true),
		report(40.72, -74.01, false),
		report(48.85, 2.35, false),
	}

	stats := BuildStatistics(reports)

	require.Len(t, stats.Regions, 3)
	assert.Equal(t, "40.7,-74.0", stats.Regions[0].Region)
	assert.Equal(t, 2, stats.Regions[0].Total)
	// Оставшиеся регионы по одному сообщению, упорядочены по ключу
	assert.Equal(t, "48.9,2.4", stats.Regions[1].Region)
	assert.Equal(t, "50.5,30.5", stats.Regions[2].Region)
}

func TestBuildStatistics_PercentageBounds(t *testing.T) {
	allOn := BuildStatistics([]*models.Report{
		report(1.0, 1.0, true),
		report(1.0, 1.0, true),
	})
	allOff := BuildStatistics([]*models.Report{
		report(1.0, 1.0, false),
	})

	assert.Equal(t, 100.0, allOn.Overall.Percentage)
	assert.Equal(t, 100.0, allOn.Regions[0].Percentage)
	assert.Equal(t, 0.0, allOff.Overall.Percentage)
	assert.Equal(t, 0.0, allOff.Regions[0].Percentage)
}

func TestBuildStatistics_NegativeZeroNormalized(t *testing.T) {
	// Точки по обе стороны нулевого меридиана/экватора, округляющиеся к нулю,
	// должны попадать в один регион "0.0", а не в "0.0" и "-0.0"
	reports := []*models.Report{
		report(0.04, 10.0, true),
		report(-0.04, 10.0, false),
	}

	stats := BuildStatistics(reports)

	require.Len(t, stats.Regions, 1)
	region := stats.Regions[0]
	assert.Equal(t, "0.0,10.0", region.Region)
	assert.Equal(t, 2, region.Total)
	assert.Equal(t, 1, region.WithElectricity)
	assert.Equal(t, 50.0, region.Percentage)
}

func TestBuildStatistics_NegativeHalfRoundsUp(t *testing.T) {
	// Ровные половинки округляются вверх: -0.25 -> -0.2, а не -0.3
	stats := BuildStatistics([]*models.Report{report(-0.25, -2.45, true)})

	require.Len(t, stats.Regions, 1)
	assert.Equal(t, "-0.2,-2.4", stats.Regions[0].Region)
}

func TestBuildStatistics_NegativeCoordinatesKey(t *testing.T) {
	stats := BuildStatistics([]*models.Report{report(-33.87, 151.21, true)})

	require.Len(t, stats.Regions, 1)
	assert.Equal(t, "-33.9,151.2", stats.Regions[0].Region)
	assert.Equal(t, -33.9, stats.Regions[0].Latitude)
	assert.Equal(t, 151.2, stats.Regions[0].Longitude)
}
