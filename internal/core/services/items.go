package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

type itemGroup struct {
	essential []domain.ItemSuggestion
	optional  []domain.ItemSuggestion
}

func item(name, icon, reason string) domain.ItemSuggestion {
	return domain.ItemSuggestion{Name: name, Icon: icon, Reason: reason}
}

var weatherItems = map[domain.Condition]itemGroup{
	domain.Rainy: {
		essential: []domain.ItemSuggestion{
			item("折りたたみ傘", "🌂", "雨が予想されるので傘は必須です"),
			item("レインコート", "🧥", "急な雨に備えてレインコートがあると安心"),
		},
		optional: []domain.ItemSuggestion{
			item("濡れても良い靴", "👟", "雨で靴が濡れても大丈夫な靴を履きましょう"),
		},
	},
	domain.Sunny: {
		essential: []domain.ItemSuggestion{
			item("日焼け止め", "🧴", "紫外線対策は忘れずに"),
			item("サングラス", "🕶️", "日差しが強いので目を保護しましょう"),
		},
		optional: []domain.ItemSuggestion{
			item("帽子", "👒", "直射日光を避けるために帽子があると良いです"),
		},
	},
	domain.Cloudy: {
		optional: []domain.ItemSuggestion{
			item("折りたたみ傘", "🌂", "急な雨に備えて持参することをお勧めします"),
			item("薄手のカーディガン", "🧥", "曇りで体感温度が低いので、羽織るものがあると安心"),
		},
	},
	domain.Snowy: {
		essential: []domain.ItemSuggestion{
			item("手袋", "🧤", "雪が降るので手袋は必須です"),
			item("マフラー", "🧣", "首元の防寒対策を忘れずに"),
			item("滑りにくい靴", "👢", "雪道では滑りにくい靴を履きましょう"),
		},
	},
}

func temperatureItems(t int) itemGroup {
	switch {
	case t < 5:
		return itemGroup{essential: []domain.ItemSuggestion{
			item("カイロ", "🔥", "非常に寒いのでカイロがあると温かく過ごせます"),
			item("マフラー", "🧣", "首元の防寒対策を忘れずに"),
			item("手袋", "🧤", "手の防寒対策も重要です"),
		}}
	case t < 10:
		return itemGroup{essential: []domain.ItemSuggestion{
			item("カイロ", "🔥", "寒いのでカイロがあると温かく過ごせます"),
			item("マフラー", "🧣", "首元の防寒対策を忘れずに"),
		}}
	case t < 15:
		return itemGroup{optional: []domain.ItemSuggestion{
			item("薄手のカーディガン", "🧥", "肌寒いので、羽織るものがあると安心です"),
		}}
	case t > 25:
		return itemGroup{
			essential: []domain.ItemSuggestion{
				item("水筒", "💧", "暑いので水分補給は必須です"),
				item("扇子", "🌬️", "涼しく過ごすために扇子があると便利"),
			},
			optional: []domain.ItemSuggestion{
				item("冷却スプレー", "🧴", "暑い日は冷却スプレーがあると涼しく過ごせます"),
			},
		}
	default:
		return itemGroup{}
	}
}

// RecommendItems evaluates the item rules without caching. Groups are applied
// in the order weather, temperature, humidity, wind and duplicates are kept.
func RecommendItems(t int, weather domain.Condition, humidity *int, wind *float64) domain.ItemsSuggestion {
	essential := []domain.ItemSuggestion{}
	optional := []domain.ItemSuggestion{}

	for _, g := range []itemGroup{weatherItems[weather], temperatureItems(t)} {
		essential = append(essential, g.essential...)
		optional = append(optional, g.optional...)
	}

	if humidity != nil && *humidity > 70 {
		optional = append(optional, item("タオル", "🧻", "湿度が高いので汗を拭くタオルがあると良いです"))
	}

	if wind != nil && *wind > 5 {
		optional = append(optional, item("帽子", "👒", "風が強いので帽子があると髪が乱れません"))
	}

	return domain.ItemsSuggestion{
		Essential: essential,
		Optional:  optional,
		Advice:    itemsAdvice(t, weather, humidity),
		WeatherSummary: domain.WeatherSummary{
			Temperature:  t,
			Weather:      weather,
			ComfortLevel: ComfortFor(t),
			RiskFactors:  riskFactors(t, weather, wind),
		},
	}
}

func itemsAdvice(t int, weather domain.Condition, humidity *int) string {
	var parts []string

	if weather == domain.Rainy {
		parts = append(parts, "雨が予想されるので、濡れても良い靴を履くことをお勧めします")
	}

	if t < 5 {
		parts = append(parts, "非常に寒いので、防寒対策を万全にしてください")
	} else if t > 30 {
		parts = append(parts, "非常に暑いので、熱中症対策を忘れずに")
	}

	if humidity != nil && *humidity > 80 {
		parts = append(parts, "湿度が高いので、汗をかきやすい服装を避けましょう")
	}

	if len(parts) == 0 {
		return "今日は快適な天気です。お出かけを楽しんでください！"
	}

	return strings.Join(parts, "。")
}

func riskFactors(t int, weather domain.Condition, wind *float64) []domain.RiskFactor {
	risks := []domain.RiskFactor{}

	if t < 10 {
		risks = append(risks, domain.RiskHypothermia)
	} else if t > 30 {
		risks = append(risks, domain.RiskHeatstroke)
	}

	if weather == domain.Rainy {
		risks = append(risks, domain.RiskSlipperyConditions)
	}

	if wind != nil && *wind > 10 {
		risks = append(risks, domain.RiskStrongWind)
	}

	return risks
}

// ItemsService recommends things to carry.
type ItemsService struct {
	cache  *resultCache
	logger *zap.Logger
}

func NewItemsService(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger) *ItemsService {
	return &ItemsService{
		cache:  newResultCache(store, metrics, logger),
		logger: logger,
	}
}

var _ ports.ItemsAdvisor = (*ItemsService)(nil)

func (s *ItemsService) Suggest(ctx context.Context, req ports.ItemsRequest) (*domain.ItemsSuggestion, error) {
	conditions := domain.Conditions{
		Temperature: req.Temperature,
		Weather:     req.Weather,
		Humidity:    req.Humidity,
		WindSpeed:   req.WindSpeed,
	}

	if err := conditions.Validate(); err != nil {
		return nil, domain.InvalidInput("invalid item conditions", err)
	}

	weather, _ := domain.ParseCondition(string(req.Weather))
	key := fmt.Sprintf("items:%d:%s:%s:%s", req.Temperature, weather, optionalInt(req.Humidity), optionalFloat(req.WindSpeed))

	suggestion, err := cached(ctx, s.cache, domainItems, key, itemsTTL, func(context.Context) (domain.ItemsSuggestion, error) {
		return RecommendItems(req.Temperature, weather, req.Humidity, req.WindSpeed), nil
	})
	if err != nil {
		return nil, err
	}

	return &suggestion, nil
}

func optionalInt(v *int) string {
	if v == nil {
		return "nil"
	}

	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return "nil"
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}
