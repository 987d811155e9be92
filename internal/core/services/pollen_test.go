package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/cache"
)

func TestSeasonOf(t *testing.T) {
	want := map[time.Month]domain.Season{
		time.January: domain.Winter, time.February: domain.Winter, time.March: domain.Spring,
		time.April: domain.Spring, time.May: domain.Spring, time.June: domain.Summer,
		time.July: domain.Summer, time.August: domain.Summer, time.September: domain.Autumn,
		time.October: domain.Autumn, time.November: domain.Autumn, time.December: domain.Winter,
	}

	for month, season := range want {
		assert.Equal(t, season, SeasonOf(month), month.String())
	}
}

func TestBuildPollenReport(t *testing.T) {
	tests := []struct {
		name         string
		date         time.Time
		wantSeason   domain.Season
		wantOverall  domain.PollenLevel
		wantFirst    string
		wantForecast []domain.PollenLevel
	}{
		{
			name:         "spring",
			date:         time.Date(2026, 3, 15, 12, 0, 0, 0, jst),
			wantSeason:   domain.Spring,
			wantOverall:  domain.PollenHigh,
			wantFirst:    "スギ花粉",
			wantForecast: []domain.PollenLevel{domain.PollenHigh, domain.PollenHigh, domain.PollenMedium},
		},
		{
			name:         "summer",
			date:         time.Date(2026, 7, 1, 12, 0, 0, 0, jst),
			wantSeason:   domain.Summer,
			wantOverall:  domain.PollenMedium,
			wantFirst:    "イネ科花粉",
			wantForecast: []domain.PollenLevel{domain.PollenMedium, domain.PollenLow, domain.PollenMedium},
		},
		{
			name:         "autumn",
			date:         tokyoTime,
			wantSeason:   domain.Autumn,
			wantOverall:  domain.PollenLow,
			wantFirst:    "ブタクサ花粉",
			wantForecast: []domain.PollenLevel{domain.PollenLow, domain.PollenLow, domain.PollenMedium},
		},
		{
			name:         "winter",
			date:         time.Date(2026, 12, 31, 12, 0, 0, 0, jst),
			wantSeason:   domain.Winter,
			wantOverall:  domain.PollenVeryLow,
			wantFirst:    "スギ花粉",
			wantForecast: []domain.PollenLevel{domain.PollenVeryLow, domain.PollenVeryLow, domain.PollenVeryLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := BuildPollenReport(tokyo, tt.date)

			assert.Equal(t, tt.wantSeason, report.Season)
			assert.Equal(t, tt.wantOverall, report.OverallLevel)
			assert.Equal(t, tt.wantFirst, report.Types[0].Name)
			assert.Equal(t, pollenAdvice[tt.wantOverall], report.Advice)
			require.Len(t, report.Forecast, 3)
			assert.Equal(t, []string{"今日", "明日", "明後日"}, []string{report.Forecast[0].Day, report.Forecast[1].Day, report.Forecast[2].Day})

			for i, level := range tt.wantForecast {
				assert.Equal(t, level, report.Forecast[i].Level)
			}
		})
	}
}

func TestBuildPollenReport_LabelsDateAndLocation(t *testing.T) {
	report := BuildPollenReport(tokyo, tokyoTime)

	assert.Equal(t, "2026年10月18日", report.Date)
	assert.Equal(t, "東京都, 渋谷区", report.Location)
	assert.Equal(t, "花粉は少ないですが、敏感な方は注意が必要です。", report.Advice)
}

func TestPollenService_Report(t *testing.T) {
	store := new(MockCacheService)
	store.On("Get", mock.Anything, "pollen:35.6762:139.6503:20261018").Return(nil, cache.ErrCacheMiss)
	store.On("Set", mock.Anything, "pollen:35.6762:139.6503:20261018", mock.Anything, 24*time.Hour).Return(nil)

	service := NewPollenService(store, nil, zap.NewNop(), fixedClock())

	report, err := service.Report(context.Background(), ports.PollenRequest{Coordinates: tokyo})
	require.NoError(t, err)

	assert.Equal(t, domain.Autumn, report.Season)
	store.AssertExpectations(t)
}

func TestPollenService_InvalidCoordinates(t *testing.T) {
	service := NewPollenService(cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop())

	_, err := service.Report(context.Background(), ports.PollenRequest{Coordinates: domain.Coordinates{Latitude: 95}})
	assert.Error(t, err)
}
