package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

var weeklyWeatherAdvice = map[domain.Condition]string{
	domain.Rainy:  "雨が降る予報なので、防水対策を忘れずに。",
	domain.Stormy: "雨が降る予報なので、防水対策を忘れずに。",
	domain.Snowy:  "雪が降る予報なので、防寒対策をしっかりしましょう。",
	domain.Sunny:  "晴れて気持ちの良い一日になりそうです。",
	domain.Cloudy: "曇り空ですが、過ごしやすい一日でしょう。",
}

var weeklyTemperatureAdvice = []band[string]{
	{upTo: 5, value: "極寒です！最大限の防寒対策をしてください。"},
	{upTo: 10, value: "肌寒いです。暖かいアウターを羽織りましょう。"},
	{upTo: 15, value: "少し肌寒さを感じるでしょう。薄手の羽織ものがあると安心です。"},
	{upTo: 20, value: "過ごしやすい気温です。日中は快適に過ごせるでしょう。"},
	{upTo: 25, value: "暖かい一日です。薄着で快適に過ごせます。"},
	{upTo: unbounded, value: "暑い一日になりそうです。熱中症対策を忘れずに。"},
}

func dailyAdvice(weather domain.Condition, avg float64) string {
	temp := pickBand(weeklyTemperatureAdvice, avg)
	if w, ok := weeklyWeatherAdvice[weather]; ok {
		return w + " " + temp
	}

	return temp
}

func laundrySuggestion(weather domain.Condition) string {
	switch weather {
	case domain.Sunny:
		return "晴れの日なので洗濯日和です！"
	case domain.Cloudy:
		return "曇りですが洗濯は可能です。"
	case domain.Rainy, domain.Stormy:
		return "雨の予報なので洗濯は控えましょう。"
	default:
		return "天気を確認してから洗濯を決めましょう。"
	}
}

func weeklySummary(days []domain.DailyOutfit) string {
	outerDays, rainyDays := 0, 0

	for _, d := range days {
		if d.Outfit.HasOuter() {
			outerDays++
		}

		if d.Weather == domain.Rainy {
			rainyDays++
		}
	}

	var clothes string

	switch {
	case outerDays > 4:
		clothes = "今週は寒い日が多いので、厚手のアウターを多めに準備しましょう。"
	case outerDays < 2:
		clothes = "今週は暖かい日が多いので、薄手の服装で過ごせそうです。"
	default:
		clothes = "今週は気温の変化が大きいので、調整しやすい服装がおすすめです。"
	}

	var rain string

	switch {
	case rainyDays > 2:
		rain = "雨の日が多いので、防水アイテムを忘れずに。"
	case rainyDays == 0:
		rain = "今週は雨の心配がなさそうです。"
	default:
		rain = "雨の日もあるので、折りたたみ傘があると安心です。"
	}

	return clothes + " " + rain
}

// PlanWeek evaluates the weekly rules for forecast without caching.
func PlanWeek(forecast domain.WeeklyForecast, style domain.Style) domain.WeeklyOutfits {
	days := make([]domain.DailyOutfit, 0, len(forecast.Days))

	for _, f := range forecast.Days {
		avg := float64(f.MaxTemp+f.MinTemp) / 2

		days = append(days, domain.DailyOutfit{
			Date:              f.Date,
			DayOfWeek:         f.DayOfWeek,
			Weather:           f.Condition,
			Icon:              f.Icon,
			MaxTemp:           f.MaxTemp,
			MinTemp:           f.MinTemp,
			AverageTemp:       avg,
			RainProbability:   f.RainProbability,
			Outfit:            OutfitFor(style, avg),
			Advice:            dailyAdvice(f.Condition, avg),
			LaundrySuggestion: laundrySuggestion(f.Condition),
		})
	}

	return domain.WeeklyOutfits{
		Days:     days,
		Summary:  weeklySummary(days),
		Style:    style,
		Location: forecast.Location,
	}
}

// WeeklyService turns a weekly forecast into daily outfits.
type WeeklyService struct {
	cache  *resultCache
	logger *zap.Logger
}

func NewWeeklyService(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger) *WeeklyService {
	return &WeeklyService{
		cache:  newResultCache(store, metrics, logger),
		logger: logger,
	}
}

var _ ports.WeeklyAggregator = (*WeeklyService)(nil)

func (s *WeeklyService) SuggestWeek(ctx context.Context, req ports.WeeklyRequest) (*domain.WeeklyOutfits, error) {
	style, err := domain.ParseStyle(string(req.Style))
	if err != nil {
		return nil, domain.InvalidInput("invalid style", err)
	}

	gender := req.Gender
	if gender == "" {
		gender = domain.DefaultGender
	}

	if req.Forecast.Source == domain.SourceFallback {
		plan := PlanWeek(req.Forecast, style)

		return &plan, nil
	}

	firstDate := "none"
	if len(req.Forecast.Days) > 0 {
		firstDate = req.Forecast.Days[0].Date
	}

	coords := req.Forecast.Location.Coordinates
	key := fmt.Sprintf("weekly_clothing:%.2f:%.2f:%s:%s:%s", coords.Latitude, coords.Longitude, style, gender, firstDate)

	plan, err := cached(ctx, s.cache, domainWeeklyClothing, key, weeklyClothingTTL, func(context.Context) (domain.WeeklyOutfits, error) {
		return PlanWeek(req.Forecast, style), nil
	})
	if err != nil {
		return nil, err
	}

	return &plan, nil
}
