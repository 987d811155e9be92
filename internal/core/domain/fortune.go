package domain

// FortuneLevel grades the mean of the four fortune categories.
type FortuneLevel string

const (
	Excellent FortuneLevel = "excellent"
	Good      FortuneLevel = "good"
	Average   FortuneLevel = "average"
	Poor      FortuneLevel = "poor"
	VeryPoor  FortuneLevel = "very_poor"
)

// FortuneCategory names one of the four scored aspects.
type FortuneCategory string

const (
	CategoryLuck   FortuneCategory = "luck"
	CategoryLove   FortuneCategory = "love"
	CategoryWork   FortuneCategory = "work"
	CategoryHealth FortuneCategory = "health"
)

// FortuneScore holds the four category scores, each in [0, 100].
type FortuneScore struct {
	Luck   int `json:"luck"`
	Love   int `json:"love"`
	Work   int `json:"work"`
	Health int `json:"health"`
}

// Mean returns the integer mean of the four scores.
func (s FortuneScore) Mean() int {
	return (s.Luck + s.Love + s.Work + s.Health) / 4
}

// Highest returns the top scoring category. Ties resolve in the order
// luck, love, work, health.
func (s FortuneScore) Highest() FortuneCategory {
	best, score := CategoryLuck, s.Luck
	if s.Love > score {
		best, score = CategoryLove, s.Love
	}

	if s.Work > score {
		best, score = CategoryWork, s.Work
	}

	if s.Health > score {
		best = CategoryHealth
	}

	return best
}

// FortuneMessages carries one sentence per category.
type FortuneMessages struct {
	Luck   string `json:"luck"`
	Love   string `json:"love"`
	Work   string `json:"work"`
	Health string `json:"health"`
}

// FortuneForecast is one day of the weekly fortune outlook.
type FortuneForecast struct {
	Date         string       `json:"date"`
	DayOfWeek    string       `json:"day_of_week"`
	OverallLevel FortuneLevel `json:"overall_level"`
	Icon         string       `json:"icon"`
}

// ZodiacProfile describes a zodiac sign.
type ZodiacProfile struct {
	Sign    Zodiac `json:"sign"`
	Name    string `json:"name"`
	Element string `json:"element"`
	Symbol  string `json:"symbol"`
}

// FortuneReport is the result of the fortune advisor.
type FortuneReport struct {
	Scores       FortuneScore      `json:"scores"`
	OverallLevel FortuneLevel      `json:"overall_level"`
	Messages     FortuneMessages   `json:"messages"`
	LuckyColor   string            `json:"lucky_color"`
	LuckyItem    string            `json:"lucky_item"`
	Advice       string            `json:"advice"`
	Forecast     []FortuneForecast `json:"forecast"`

	// Zodiac is nil in daily mode
	Zodiac *ZodiacProfile `json:"zodiac,omitempty"`
}
