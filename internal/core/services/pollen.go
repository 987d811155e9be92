package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/core/region"
)

type seasonPollen struct {
	overall  domain.PollenLevel
	types    []domain.PollenType
	forecast [3]domain.PollenForecast
}

func outlook(l1 domain.PollenLevel, i1 string, l2 domain.PollenLevel, i2 string, l3 domain.PollenLevel, i3 string) [3]domain.PollenForecast {
	return [3]domain.PollenForecast{
		{Day: "今日", Level: l1, Icon: i1},
		{Day: "明日", Level: l2, Icon: i2},
		{Day: "明後日", Level: l3, Icon: i3},
	}
}

var pollenBySeason = map[domain.Season]seasonPollen{
	domain.Spring: {
		overall: domain.PollenHigh,
		types: []domain.PollenType{
			{Name: "スギ花粉", Level: domain.PollenVeryHigh, Icon: "🌲"},
			{Name: "ヒノキ花粉", Level: domain.PollenHigh, Icon: "🌲"},
			{Name: "ハンノキ花粉", Level: domain.PollenMedium, Icon: "🌳"},
		},
		forecast: outlook(domain.PollenHigh, "🌲", domain.PollenHigh, "🌲", domain.PollenMedium, "🌳"),
	},
	domain.Summer: {
		overall: domain.PollenMedium,
		types: []domain.PollenType{
			{Name: "イネ科花粉", Level: domain.PollenMedium, Icon: "🌾"},
			{Name: "ブタクサ花粉", Level: domain.PollenLow, Icon: "🌿"},
			{Name: "ヨモギ花粉", Level: domain.PollenLow, Icon: "🌿"},
		},
		forecast: outlook(domain.PollenMedium, "🌾", domain.PollenLow, "🌿", domain.PollenMedium, "🌾"),
	},
	domain.Autumn: {
		overall: domain.PollenLow,
		types: []domain.PollenType{
			{Name: "ブタクサ花粉", Level: domain.PollenMedium, Icon: "🌿"},
			{Name: "ヨモギ花粉", Level: domain.PollenMedium, Icon: "🌿"},
			{Name: "カナムグラ花粉", Level: domain.PollenLow, Icon: "🌿"},
		},
		forecast: outlook(domain.PollenLow, "🌿", domain.PollenLow, "🌿", domain.PollenMedium, "🌿"),
	},
	domain.Winter: {
		overall: domain.PollenVeryLow,
		types: []domain.PollenType{
			{Name: "スギ花粉", Level: domain.PollenVeryLow, Icon: "🌲"},
			{Name: "ハンノキ花粉", Level: domain.PollenVeryLow, Icon: "🌳"},
		},
		forecast: outlook(domain.PollenVeryLow, "🌲", domain.PollenVeryLow, "🌲", domain.PollenVeryLow, "🌲"),
	},
}

var pollenAdvice = map[domain.PollenLevel]string{
	domain.PollenVeryHigh: "花粉が非常に多い日です。外出時はマスクとメガネを必ず着用し、帰宅時は手洗い・うがいを忘れずに。",
	domain.PollenHigh:     "花粉が多い日です。マスクの着用をお勧めします。外出後は服を着替えると良いでしょう。",
	domain.PollenMedium:   "花粉が中程度の日です。敏感な方はマスクの着用を検討してください。",
	domain.PollenLow:      "花粉は少ないですが、敏感な方は注意が必要です。",
	domain.PollenVeryLow:  "花粉はほとんど飛散していません。安心してお出かけください。",
}

// SeasonOf returns the meteorological season of month m.
func SeasonOf(m time.Month) domain.Season {
	switch m {
	case time.March, time.April, time.May:
		return domain.Spring
	case time.June, time.July, time.August:
		return domain.Summer
	case time.September, time.October, time.November:
		return domain.Autumn
	default:
		return domain.Winter
	}
}

// BuildPollenReport evaluates the pollen tables for date at coords.
func BuildPollenReport(coords domain.Coordinates, date time.Time) domain.PollenReport {
	season := SeasonOf(date.Month())
	p := pollenBySeason[season]

	return domain.PollenReport{
		Date:         date.Format("2006年01月02日"),
		Season:       season,
		OverallLevel: p.overall,
		Types:        append([]domain.PollenType{}, p.types...),
		Advice:       pollenAdvice[p.overall],
		Forecast:     append([]domain.PollenForecast{}, p.forecast[:]...),
		Location:     region.Resolve(coords.Latitude, coords.Longitude),
	}
}

// PollenService reports seasonal pollen, cached per location and date.
type PollenService struct {
	cache  *resultCache
	clock  clock
	logger *zap.Logger
}

func NewPollenService(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger, opts ...Option) *PollenService {
	return &PollenService{
		cache:  newResultCache(store, metrics, logger),
		clock:  newClock(opts),
		logger: logger,
	}
}

var _ ports.PollenAdvisor = (*PollenService)(nil)

func (s *PollenService) Report(ctx context.Context, req ports.PollenRequest) (*domain.PollenReport, error) {
	if err := req.Coordinates.Validate(); err != nil {
		return nil, domain.InvalidInput("invalid coordinates", err)
	}

	date := s.clock.at(req.Date)
	key := fmt.Sprintf("pollen:%.4f:%.4f:%s", req.Coordinates.Latitude, req.Coordinates.Longitude, date.Format("20060102"))

	report, err := cached(ctx, s.cache, domainPollen, key, pollenTTL, func(context.Context) (domain.PollenReport, error) {
		return BuildPollenReport(req.Coordinates, date), nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}
