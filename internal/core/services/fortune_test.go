package services

import (
	"context"
	"errors"
	"strings"
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

func TestDailyScores_RegionalAndHourModifiers(t *testing.T) {
	// Shinjuku bucket and morning modifiers; love overflows and is clamped.
	got := DailyScores(tokyo, tokyoTime)

	assert.Equal(t, domain.FortuneScore{Luck: 17, Love: 100, Work: 18, Health: 32}, got)
	assert.Equal(t, domain.Average, LevelOf(got))
	assert.Equal(t, domain.CategoryLove, got.Highest())
}

func TestDailyScores_OutsideRegionsUsesNeutralModifier(t *testing.T) {
	sapporo := domain.Coordinates{Latitude: 43.0618, Longitude: 141.3545}
	midnight := time.Date(2026, 10, 18, 2, 0, 0, 0, jst)

	assert.Equal(t, domain.FortuneScore{Luck: 12, Love: 100, Work: 9, Health: 29}, DailyScores(sapporo, midnight))
}

func TestZodiacScores(t *testing.T) {
	for _, sign := range domain.Zodiacs {
		t.Run(string(sign), func(t *testing.T) {
			first := ZodiacScores(sign, tokyoTime)
			second := ZodiacScores(sign, tokyoTime)

			assert.Equal(t, first, second, "scores are deterministic per sign, day and hour")

			for _, v := range []int{first.Luck, first.Love, first.Work, first.Health} {
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, 100)
			}
		})
	}
}

func TestZodiacScores_BoundedForEveryDayAndHour(t *testing.T) {
	start := time.Date(2028, 1, 1, 0, 0, 0, 0, jst)

	for _, sign := range domain.Zodiacs {
		for day := 0; day < 366; day++ {
			for hour := 0; hour < 24; hour++ {
				at := start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
				s := ZodiacScores(sign, at)

				for _, v := range []int{s.Luck, s.Love, s.Work, s.Health} {
					if v < 0 || v > 100 {
						t.Fatalf("%s yday=%d hour=%d: score %d out of [0,100]", sign, at.YearDay(), hour, v)
					}
				}
			}
		}
	}
}

func TestZodiacHourModifier(t *testing.T) {
	tests := []struct {
		hours []int
		want  float64
	}{
		{hours: []int{6, 9, 11}, want: 1.15},
		{hours: []int{12, 14, 17}, want: 1.15},
		{hours: []int{18, 20, 22}, want: 1.15},
		{hours: []int{23, 0, 3, 5}, want: 0.85},
	}

	for _, tt := range tests {
		for _, hour := range tt.hours {
			assert.Equal(t, tt.want, zodiacHourModifier(hour), "hour %d", hour)
		}
	}
}

func TestFortuneService_DailyKeyFollowsRegionalBucket(t *testing.T) {
	ctx := context.Background()
	service := NewFortuneService(cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop(), fixedClock())

	// Both points round to 35.60 but sit on either side of the 35.6 edge.
	shinjuku := domain.Coordinates{Latitude: 35.604, Longitude: 139.7}
	kawasaki := domain.Coordinates{Latitude: 35.596, Longitude: 139.7}

	first, err := service.Tell(ctx, ports.FortuneRequest{Coordinates: shinjuku})
	require.NoError(t, err)

	second, err := service.Tell(ctx, ports.FortuneRequest{Coordinates: kawasaki})
	require.NoError(t, err)

	assert.Equal(t, DailyScores(shinjuku, tokyoTime), first.Scores)
	assert.Equal(t, domain.FortuneScore{Luck: 16, Love: 100, Work: 14, Health: 39}, second.Scores)
	assert.NotEqual(t, first.Scores, second.Scores)
}

func TestZodiacFactor_Range(t *testing.T) {
	for _, sign := range domain.Zodiacs {
		for yday := 1; yday <= 366; yday++ {
			f := zodiacFactor(sign, yday)
			require.GreaterOrEqual(t, f, 0.8)
			require.Less(t, f, 1.2)
		}
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		scores domain.FortuneScore
		want   domain.FortuneLevel
	}{
		{domain.FortuneScore{Luck: 80, Love: 80, Work: 80, Health: 80}, domain.Excellent},
		{domain.FortuneScore{Luck: 80, Love: 80, Work: 80, Health: 79}, domain.Good},
		{domain.FortuneScore{Luck: 60, Love: 60, Work: 60, Health: 60}, domain.Good},
		{domain.FortuneScore{Luck: 40, Love: 40, Work: 40, Health: 40}, domain.Average},
		{domain.FortuneScore{Luck: 20, Love: 20, Work: 20, Health: 20}, domain.Poor},
		{domain.FortuneScore{Luck: 19, Love: 20, Work: 20, Health: 20}, domain.VeryPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.scores), "%+v", tt.scores)
	}
}

func TestBuildFortune_Daily(t *testing.T) {
	report := BuildFortune(ports.FortuneRequest{Coordinates: tokyo}, tokyoTime)

	assert.Equal(t, domain.Average, report.OverallLevel)
	assert.Equal(t, fortuneAdvice[domain.Average], report.Advice)
	assert.Equal(t, luckMessages[4], report.Messages.Luck)
	assert.Equal(t, loveMessages[0], report.Messages.Love)
	assert.Equal(t, workMessages[4], report.Messages.Work)
	assert.Equal(t, healthMessages[3], report.Messages.Health)
	assert.Contains(t, LuckyColors[domain.CategoryLove], report.LuckyColor)
	assert.Contains(t, LuckyItems[domain.CategoryLove], report.LuckyItem)
	assert.Nil(t, report.Zodiac)

	require.Len(t, report.Forecast, 7)
	assert.Equal(t, report.OverallLevel, report.Forecast[0].OverallLevel)

	wantWeekday := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, day := range report.Forecast {
		assert.Equal(t, tokyoTime.AddDate(0, 0, i).Format("01/02"), day.Date)
		assert.Equal(t, wantWeekday[i], day.DayOfWeek)
		assert.Equal(t, forecastIcons[day.OverallLevel], day.Icon)
	}
}

func TestBuildFortune_Zodiac(t *testing.T) {
	report := BuildFortune(ports.FortuneRequest{Coordinates: tokyo, Zodiac: domain.Leo}, tokyoTime)

	require.NotNil(t, report.Zodiac)
	assert.Equal(t, domain.ZodiacProfile{Sign: domain.Leo, Name: "獅子座", Element: "火", Symbol: "♌"}, *report.Zodiac)
	assert.True(t, strings.HasPrefix(report.Messages.Luck, "獅子座の総合運"), report.Messages.Luck)
	assert.Equal(t, ZodiacScores(domain.Leo, tokyoTime), report.Scores)
	assert.Contains(t, LuckyColors[report.Scores.Highest()], report.LuckyColor)
}

func TestFortuneService_Keys(t *testing.T) {
	tests := []struct {
		name    string
		req     ports.FortuneRequest
		wantKey string
	}{
		{
			name:    "zodiac",
			req:     ports.FortuneRequest{Coordinates: tokyo, Zodiac: domain.Leo},
			wantKey: "fortune:zodiac:leo:291:9",
		},
		{
			name:    "location",
			req:     ports.FortuneRequest{Coordinates: tokyo},
			wantKey: "fortune:daily:region-0:291:9",
		},
		{
			name:    "location outside every region",
			req:     ports.FortuneRequest{Coordinates: domain.Coordinates{Latitude: 43.0618, Longitude: 141.3545}},
			wantKey: "fortune:daily:neutral:291:9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockCacheService)
			store.On("Get", mock.Anything, tt.wantKey).Return(nil, cache.ErrCacheMiss)
			store.On("Set", mock.Anything, tt.wantKey, mock.Anything, time.Hour).Return(nil)

			service := NewFortuneService(store, nil, zap.NewNop(), fixedClock())

			_, err := service.Tell(context.Background(), tt.req)
			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}
}

func TestFortuneService_CachedWithinTheHour(t *testing.T) {
	ctx := context.Background()
	service := NewFortuneService(cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop(), fixedClock())

	first, err := service.Tell(ctx, ports.FortuneRequest{Coordinates: tokyo})
	require.NoError(t, err)

	second, err := service.Tell(ctx, ports.FortuneRequest{Coordinates: tokyo, At: tokyoTime.Add(20 * time.Minute)})
	require.NoError(t, err)

	assert.Equal(t, first.LuckyColor, second.LuckyColor)
	assert.Equal(t, first.LuckyItem, second.LuckyItem)
}

func TestFortuneService_InvalidInput(t *testing.T) {
	service := NewFortuneService(cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop())

	for _, req := range []ports.FortuneRequest{
		{Coordinates: tokyo, Zodiac: "dragon"},
		{Coordinates: domain.Coordinates{Latitude: 10, Longitude: 200}},
	} {
		_, err := service.Tell(context.Background(), req)

		var advisorErr *domain.AdvisorError
		require.True(t, errors.As(err, &advisorErr))
		assert.Equal(t, domain.CodeInvalidInput, advisorErr.Code)
	}
}
