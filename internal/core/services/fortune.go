package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/core/region"
)

// quad holds one float per fortune category.
type quad struct {
	luck, love, work, health float64
}

func (q quad) times(o quad) quad {
	return quad{q.luck * o.luck, q.love * o.love, q.work * o.work, q.health * o.health}
}

func (q quad) scale(f float64) quad {
	return quad{q.luck * f, q.love * f, q.work * f, q.health * f}
}

func (q quad) score() domain.FortuneScore {
	return domain.FortuneScore{
		Luck:   clampScore(q.luck),
		Love:   clampScore(q.love),
		Work:   clampScore(q.work),
		Health: clampScore(q.health),
	}
}

func clampScore(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

type zodiacBase struct {
	base    quad
	name    string
	element string
	symbol  string
}

var zodiacTable = map[domain.Zodiac]zodiacBase{
	domain.Aries:       {quad{75, 70, 80, 75}, "牡羊座", "火", "♈"},
	domain.Taurus:      {quad{70, 85, 75, 80}, "牡牛座", "土", "♉"},
	domain.Gemini:      {quad{80, 75, 85, 70}, "双子座", "風", "♊"},
	domain.Cancer:      {quad{70, 80, 70, 75}, "蟹座", "水", "♋"},
	domain.Leo:         {quad{85, 80, 80, 80}, "獅子座", "火", "♌"},
	domain.Virgo:       {quad{75, 70, 90, 85}, "乙女座", "土", "♍"},
	domain.Libra:       {quad{80, 90, 75, 75}, "天秤座", "風", "♎"},
	domain.Scorpio:     {quad{75, 85, 80, 80}, "蠍座", "水", "♏"},
	domain.Sagittarius: {quad{90, 75, 75, 80}, "射手座", "火", "♐"},
	domain.Capricorn:   {quad{70, 70, 95, 85}, "山羊座", "土", "♑"},
	domain.Aquarius:    {quad{80, 75, 85, 75}, "水瓶座", "風", "♒"},
	domain.Pisces:      {quad{75, 85, 70, 75}, "魚座", "水", "♓"},
}

// zodiacHourModifier lifts the waking hours and subdues the night.
func zodiacHourModifier(hour int) float64 {
	switch {
	case hour >= 6 && hour <= 11:
		return 1.15
	case hour >= 12 && hour <= 17:
		return 1.15
	case hour >= 18 && hour <= 22:
		return 1.15
	default:
		return 0.85
	}
}

// zodiacFactor is a per sign, per day multiplier in [0.8, 1.2).
func zodiacFactor(sign domain.Zodiac, yday int) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sign))
	seed := h.Sum64() + uint64(yday)

	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	return 0.8 + r.Float64()*0.4
}

// ZodiacScores computes the zodiac mode scores for sign at t.
func ZodiacScores(sign domain.Zodiac, t time.Time) domain.FortuneScore {
	z := zodiacTable[sign]
	day := math.Sin(float64(t.YearDay())*0.1)*0.3 + 1

	return z.base.scale(day * zodiacHourModifier(t.Hour()) * zodiacFactor(sign, t.YearDay())).score()
}

func fortuneBucket(latMin, latMax, lonMin, lonMax float64, m quad) region.Bucket[quad] {
	return region.Bucket[quad]{
		Lat:   region.Range{Min: latMin, Max: latMax},
		Lon:   region.Range{Min: lonMin, Max: lonMax},
		Value: m,
	}
}

var regionalFortune = region.Table[quad]{
	fortuneBucket(35.6, 35.8, 139.6, 139.9, quad{1.2, 1.1, 1.3, 0.9}),
	fortuneBucket(35.3, 35.6, 139.4, 139.8, quad{1.1, 1.2, 1.0, 1.1}),
	fortuneBucket(34.6, 34.8, 135.4, 135.6, quad{1.3, 1.0, 1.2, 1.0}),
}

func regionalModifier(coords domain.Coordinates) quad {
	if m, ok := regionalFortune.Lookup(coords.Latitude, coords.Longitude); ok {
		return m
	}

	return quad{1, 1, 1, 1}
}

// regionalKey names the modifier bucket coords fall into. Daily scores depend
// on coordinates only through that bucket.
func regionalKey(coords domain.Coordinates) string {
	if i := regionalFortune.Index(coords.Latitude, coords.Longitude); i >= 0 {
		return fmt.Sprintf("region-%d", i)
	}

	return "neutral"
}

func dailyHourModifier(hour int) quad {
	switch {
	case hour >= 6 && hour <= 11:
		return quad{1.1, 1.0, 1.2, 1.1}
	case hour >= 12 && hour <= 17:
		return quad{1.0, 1.1, 1.0, 1.0}
	case hour >= 18 && hour <= 22:
		return quad{1.1, 1.2, 0.9, 1.0}
	default:
		return quad{0.9, 1.1, 0.8, 0.9}
	}
}

// DailyScores computes the location based scores at t.
func DailyScores(coords domain.Coordinates, t time.Time) domain.FortuneScore {
	d := float64(t.YearDay())
	base := quad{
		luck:   math.Sin(d*0.1)*50 + 50,
		love:   math.Cos(d*0.15)*40 + 60,
		work:   math.Sin(d*0.08)*45 + 55,
		health: math.Cos(d*0.12)*35 + 65,
	}

	return base.times(regionalModifier(coords)).times(dailyHourModifier(t.Hour())).score()
}

// LevelOf grades the integer mean of the scores.
func LevelOf(s domain.FortuneScore) domain.FortuneLevel {
	switch mean := s.Mean(); {
	case mean >= 80:
		return domain.Excellent
	case mean >= 60:
		return domain.Good
	case mean >= 40:
		return domain.Average
	case mean >= 20:
		return domain.Poor
	default:
		return domain.VeryPoor
	}
}

// scoreTier indexes the five message tiers: 80+, 60+, 40+, 20+, below.
func scoreTier(score int) int {
	switch {
	case score >= 80:
		return 0
	case score >= 60:
		return 1
	case score >= 40:
		return 2
	case score >= 20:
		return 3
	default:
		return 4
	}
}

var (
	zodiacLuckMessages = [5]string{
		"%sの総合運が最高潮！今日は全てが順調に進みそうです🌟",
		"%sの総合運が上昇中！積極的に行動すると良い結果が！",
		"%sの総合運は普通です。穏やかに過ごしましょう。",
		"%sの総合運が少し下がっています。慎重に行動を。",
		"%sの総合運が低い日です。無理をせず、休息を取って。",
	}
	luckMessages = [5]string{
		"今日は最高の運気！新しい出会いやチャンスが訪れそうです✨",
		"良い運気に恵まれています。積極的に行動してみてください！",
		"普通の運気です。無理をせず、自然体で過ごしましょう。",
		"少し運気が下がっています。慎重に行動することが大切です。",
		"運気が低い日です。静かに過ごし、明日に備えましょう。",
	}
	loveMessages = [5]string{
		"恋愛運が最高潮！素敵な出会いが待っているかもしれません💕",
		"恋愛運が上昇中！心を開いて新しい関係を築いてみて。",
		"恋愛運は普通です。今の関係を大切にしましょう。",
		"恋愛運が少し下がっています。焦らずに待つのが吉。",
		"恋愛運が低い日です。自分磨きに集中しましょう。",
	}
	workMessages = [5]string{
		"仕事運が絶好調！新しいプロジェクトや昇進のチャンスが！",
		"仕事運が良好です。積極的に新しいことに挑戦してみて。",
		"仕事運は普通です。コツコツと努力を続けましょう。",
		"仕事運が下がっています。ミスに注意して慎重に。",
		"仕事運が低い日です。無理をせず、基本的な作業に集中。",
	}
	healthMessages = [5]string{
		"健康運が最高！体調も良く、エネルギッシュな一日になりそうです！",
		"健康運が良好です。適度な運動で体を動かしてみて。",
		"健康運は普通です。規則正しい生活を心がけましょう。",
		"健康運が下がっています。休息を取って体を労って。",
		"健康運が低い日です。無理をせず、ゆっくり休みましょう。",
	}
)

// LuckyColors and LuckyItems are drawn from the highest scoring category.
var (
	LuckyColors = map[domain.FortuneCategory][]string{
		domain.CategoryLuck:   {"ピンク", "ゴールド", "レッド", "オレンジ"},
		domain.CategoryLove:   {"ピンク", "ローズ", "ラベンダー", "コーラル"},
		domain.CategoryWork:   {"ブルー", "ネイビー", "シルバー", "グレー"},
		domain.CategoryHealth: {"グリーン", "エメラルド", "ターコイズ", "ミント"},
	}
	LuckyItems = map[domain.FortuneCategory][]string{
		domain.CategoryLuck:   {"四つ葉のクローバー", "招き猫", "お守り", "クリスタル"},
		domain.CategoryLove:   {"ハートのアクセサリー", "バラの花", "ピンクの石", "ロマンチックな香り"},
		domain.CategoryWork:   {"ペン", "ノート", "名刺入れ", "時計"},
		domain.CategoryHealth: {"ハーブティー", "エッセンシャルオイル", "ヨガマット", "ウォーターボトル"},
	}
)

var fortuneAdvice = map[domain.FortuneLevel]string{
	domain.Excellent: "今日は全てが順調！新しいことに挑戦する絶好のチャンスです。",
	domain.Good:      "良い運気に恵まれています。積極的に行動して、チャンスを掴みましょう。",
	domain.Average:   "安定した運気です。無理をせず、自然体で過ごすことが大切です。",
	domain.Poor:      "運気が下がっています。慎重に行動し、明日に備えましょう。",
	domain.VeryPoor:  "運気が低い日です。静かに過ごし、自分磨きに集中しましょう。",
}

var forecastIcons = map[domain.FortuneLevel]string{
	domain.Excellent: "🌟",
	domain.Good:      "✨",
	domain.Average:   "😊",
	domain.Poor:      "😐",
	domain.VeryPoor:  "😔",
}

func pick(options []string) string {
	return options[rand.IntN(len(options))]
}

// BuildFortune produces the full report for req at t. The lucky color and
// item are drawn at random.
func BuildFortune(req ports.FortuneRequest, t time.Time) domain.FortuneReport {
	scoresAt := func(at time.Time) domain.FortuneScore {
		if req.Zodiac != "" {
			return ZodiacScores(req.Zodiac, at)
		}

		return DailyScores(req.Coordinates, at)
	}

	scores := scoresAt(t)
	level := LevelOf(scores)
	best := scores.Highest()

	report := domain.FortuneReport{
		Scores:       scores,
		OverallLevel: level,
		Messages: domain.FortuneMessages{
			Luck:   luckMessages[scoreTier(scores.Luck)],
			Love:   loveMessages[scoreTier(scores.Love)],
			Work:   workMessages[scoreTier(scores.Work)],
			Health: healthMessages[scoreTier(scores.Health)],
		},
		LuckyColor: pick(LuckyColors[best]),
		LuckyItem:  pick(LuckyItems[best]),
		Advice:     fortuneAdvice[level],
		Forecast:   make([]domain.FortuneForecast, 0, 7),
	}

	if req.Zodiac != "" {
		z := zodiacTable[req.Zodiac]
		report.Messages.Luck = fmt.Sprintf(zodiacLuckMessages[scoreTier(scores.Luck)], z.name)
		report.Zodiac = &domain.ZodiacProfile{
			Sign:    req.Zodiac,
			Name:    z.name,
			Element: z.element,
			Symbol:  z.symbol,
		}
	}

	for offset := 0; offset < 7; offset++ {
		day := t.AddDate(0, 0, offset)
		dayLevel := LevelOf(scoresAt(day))

		report.Forecast = append(report.Forecast, domain.FortuneForecast{
			Date:         day.Format("01/02"),
			DayOfWeek:    day.Format("Mon"),
			OverallLevel: dayLevel,
			Icon:         forecastIcons[dayLevel],
		})
	}

	return report
}

// FortuneService tells fortunes, cached per hour.
type FortuneService struct {
	cache  *resultCache
	clock  clock
	logger *zap.Logger
}

func NewFortuneService(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger, opts ...Option) *FortuneService {
	return &FortuneService{
		cache:  newResultCache(store, metrics, logger),
		clock:  newClock(opts),
		logger: logger,
	}
}

var _ ports.FortuneAdvisor = (*FortuneService)(nil)

func (s *FortuneService) Tell(ctx context.Context, req ports.FortuneRequest) (*domain.FortuneReport, error) {
	if err := req.Coordinates.Validate(); err != nil {
		return nil, domain.InvalidInput("invalid coordinates", err)
	}

	sign, err := domain.ParseZodiac(string(req.Zodiac))
	if err != nil {
		return nil, domain.InvalidInput("invalid zodiac sign", err)
	}

	req.Zodiac = sign
	t := s.clock.at(req.At)

	var key string
	if sign != "" {
		key = fmt.Sprintf("fortune:zodiac:%s:%d:%d", sign, t.YearDay(), t.Hour())
	} else {
		key = fmt.Sprintf("fortune:daily:%s:%d:%d", regionalKey(req.Coordinates), t.YearDay(), t.Hour())
	}

	report, err := cached(ctx, s.cache, domainFortune, key, fortuneTTL, func(context.Context) (domain.FortuneReport, error) {
		return BuildFortune(req, t), nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}
