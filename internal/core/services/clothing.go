package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

type outfitTemplate struct {
	top, bottom, outer, shoes string
	accessories               []string
	icon                      string
}

func (t outfitTemplate) build(style domain.Style) domain.Outfit {
	o := domain.Outfit{
		Top:         t.top,
		Bottom:      t.bottom,
		Shoes:       t.shoes,
		Accessories: append([]string{}, t.accessories...),
		Icon:        t.icon,
		Style:       style,
	}

	if t.outer != "" {
		outer := t.outer
		o.Outer = &outer
	}

	return o
}

func outfitBands(cold, chilly, mild, warm, hot outfitTemplate) []band[outfitTemplate] {
	return []band[outfitTemplate]{
		{upTo: 8, value: cold},
		{upTo: 12, value: chilly},
		{upTo: 18, value: mild},
		{upTo: 22, value: warm},
		{upTo: unbounded, value: hot},
	}
}

var outfitTables = map[domain.Style][]band[outfitTemplate]{
	domain.Business: outfitBands(
		outfitTemplate{"厚手ワイシャツ", "ウールスラックス", "ウールコート", "革靴", []string{"ネクタイ", "マフラー", "手袋"}, "🧥"},
		outfitTemplate{"ワイシャツ", "スラックス", "トレンチコート", "革靴", []string{"ネクタイ"}, "🧥"},
		outfitTemplate{"ワイシャツ", "スラックス", "ブレザー", "革靴", []string{"ネクタイ"}, "👔"},
		outfitTemplate{"ワイシャツ", "スラックス", "カーディガン", "革靴", []string{"ネクタイ"}, "👔"},
		outfitTemplate{"薄手ワイシャツ", "スラックス", "", "革靴", []string{"ネクタイ"}, "👔"},
	),
	domain.Casual: outfitBands(
		outfitTemplate{"セーター", "ジーンズ", "ダウンジャケット", "ブーツ", []string{"マフラー", "手袋", "ニット帽"}, "🧥"},
		outfitTemplate{"長袖Tシャツ", "ジーンズ", "ウールコート", "スニーカー", nil, "🧥"},
		outfitTemplate{"長袖Tシャツ", "ジーンズ", "ジャケット", "スニーカー", nil, "👕"},
		outfitTemplate{"長袖Tシャツ", "ジーンズ", "カーディガン", "スニーカー", nil, "👕"},
		outfitTemplate{"Tシャツ", "ジーンズ", "", "スニーカー", nil, "👕"},
	),
	domain.Child: outfitBands(
		outfitTemplate{"長袖シャツ", "ズボン", "コート", "ブーツ", []string{"マフラー", "手袋", "ニット帽"}, "🧥"},
		outfitTemplate{"長袖シャツ", "ズボン", "ウインドブレーカー", "運動靴", nil, "🧥"},
		outfitTemplate{"長袖シャツ", "ズボン", "ジャケット", "運動靴", nil, "👕"},
		outfitTemplate{"長袖シャツ", "ズボン", "カーディガン", "運動靴", nil, "👕"},
		outfitTemplate{"半袖シャツ", "ズボン", "", "運動靴", nil, "👕"},
	),
}

// OutfitFor returns a freshly built outfit for style at temperature t.
func OutfitFor(style domain.Style, t float64) domain.Outfit {
	table, ok := outfitTables[style]
	if !ok {
		table = outfitTables[domain.DefaultStyle]
		style = domain.DefaultStyle
	}

	return pickBand(table, t).build(style)
}

var weatherAdvice = map[domain.Condition]string{
	domain.Rainy:  "雨が予想されるので、濡れても良い靴を履くことをお勧めします",
	domain.Sunny:  "日差しが強いので、UV対策を忘れずに",
	domain.Cloudy: "曇り空ですが、急な雨に備えて折りたたみ傘があると安心です",
	domain.Snowy:  "雪が降るので、滑りにくい靴を履きましょう",
}

const comfortableDayAdvice = "今日は快適な気温です。お出かけを楽しんでください！"

func clothingAdvice(t int, weather domain.Condition) string {
	var parts []string

	if s, ok := weatherAdvice[weather]; ok {
		parts = append(parts, s)
	}

	switch {
	case t < 5:
		parts = append(parts, "非常に寒いので、防寒対策を万全にしてください。カイロやマフラーが必須です")
	case t < 10:
		parts = append(parts, "寒いので、しっかりとした防寒対策が必要です")
	case t < 15:
		parts = append(parts, "肌寒いので、羽織るものがあると安心です")
	case t > 25:
		parts = append(parts, "暑いので、熱中症対策を忘れずに。水分補給をこまめに")
	}

	if t < 15 && weather == domain.Cloudy {
		parts = append(parts, "曇りで体感温度が低いので、いつもより1枚多く着ることをお勧めします")
	}

	if len(parts) == 0 {
		return comfortableDayAdvice
	}

	return strings.Join(parts, "。")
}

// ComfortFor grades temperature t.
func ComfortFor(t int) domain.ComfortLevel {
	switch {
	case t >= 18 && t <= 24:
		return domain.Comfortable
	case (t >= 10 && t <= 17) || (t >= 25 && t <= 30):
		return domain.Moderate
	default:
		return domain.Uncomfortable
	}
}

// RecommendClothing evaluates the clothing rules without caching.
func RecommendClothing(t int, weather domain.Condition, style domain.Style) domain.ClothingSuggestion {
	return domain.ClothingSuggestion{
		Outfit:           OutfitFor(style, float64(t)),
		Advice:           clothingAdvice(t, weather),
		ComfortLevel:     ComfortFor(t),
		TemperatureRange: domain.TemperatureRange{Min: t - 3, Max: t + 3},
	}
}

// ClothingService recommends outfits and caches them per calendar day.
type ClothingService struct {
	cache  *resultCache
	clock  clock
	logger *zap.Logger
}

func NewClothingService(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger, opts ...Option) *ClothingService {
	return &ClothingService{
		cache:  newResultCache(store, metrics, logger),
		clock:  newClock(opts),
		logger: logger,
	}
}

var _ ports.ClothingAdvisor = (*ClothingService)(nil)

func (s *ClothingService) Suggest(ctx context.Context, req ports.ClothingRequest) (*domain.ClothingSuggestion, error) {
	weather, err := domain.ParseCondition(string(req.Weather))
	if err != nil {
		return nil, domain.InvalidInput("invalid weather condition", err)
	}

	style, err := domain.ParseStyle(string(req.Style))
	if err != nil {
		return nil, domain.InvalidInput("invalid style", err)
	}

	gender := req.Gender
	if gender == "" {
		gender = domain.DefaultGender
	}

	day := s.clock.at(req.At)
	key := fmt.Sprintf("clothing:%d:%s:%s:%s:%d", req.Temperature, weather, style, gender, day.YearDay())

	suggestion, err := cached(ctx, s.cache, domainClothing, key, clothingTTL, func(context.Context) (domain.ClothingSuggestion, error) {
		return RecommendClothing(req.Temperature, weather, style), nil
	})
	if err != nil {
		return nil, err
	}

	return &suggestion, nil
}
