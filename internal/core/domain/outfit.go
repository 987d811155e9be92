package domain

// ComfortLevel grades how pleasant a temperature feels.
type ComfortLevel string

const (
	Comfortable   ComfortLevel = "comfortable"
	Moderate      ComfortLevel = "moderate"
	Uncomfortable ComfortLevel = "uncomfortable"
)

// Outfit is a recommended set of garments for one temperature band.
type Outfit struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`

	// Outer is nil when no outer layer is needed
	Outer       *string  `json:"outer"`
	Shoes       string   `json:"shoes"`
	Accessories []string `json:"accessories"`
	Icon        string   `json:"icon"`
	Style       Style    `json:"style"`
}

// HasOuter reports whether the outfit includes an outer layer.
func (o Outfit) HasOuter() bool {
	return o.Outer != nil
}

// TemperatureRange is the band of temperatures an outfit is good for.
type TemperatureRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ClothingSuggestion is the result of the clothing advisor.
type ClothingSuggestion struct {
	Outfit           Outfit           `json:"outfit"`
	Advice           string           `json:"advice"`
	ComfortLevel     ComfortLevel     `json:"comfort_level"`
	TemperatureRange TemperatureRange `json:"temperature_range"`
}

// DailyOutfit is one day of a weekly clothing plan.
type DailyOutfit struct {
	Date              string    `json:"date"`
	DayOfWeek         string    `json:"day_of_week"`
	Weather           Condition `json:"weather"`
	Icon              string    `json:"icon"`
	MaxTemp           int       `json:"max_temp"`
	MinTemp           int       `json:"min_temp"`
	AverageTemp       float64   `json:"average_temp"`
	RainProbability   int       `json:"rain_probability"`
	Outfit            Outfit    `json:"outfit"`
	Advice            string    `json:"advice"`
	LaundrySuggestion string    `json:"laundry_suggestion"`
}

// WeeklyOutfits is the result of the weekly aggregator.
type WeeklyOutfits struct {
	Days     []DailyOutfit `json:"weekly_clothing"`
	Summary  string        `json:"summary"`
	Style    Style         `json:"style"`
	Location Location      `json:"location"`
}
