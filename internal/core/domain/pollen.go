package domain

// Season is a meteorological season derived from the calendar month.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// PollenLevel grades airborne pollen.
type PollenLevel string

const (
	PollenVeryHigh PollenLevel = "very_high"
	PollenHigh     PollenLevel = "high"
	PollenMedium   PollenLevel = "medium"
	PollenLow      PollenLevel = "low"
	PollenVeryLow  PollenLevel = "very_low"
)

// PollenType is one pollen source in the report.
type PollenType struct {
	Name  string      `json:"name"`
	Level PollenLevel `json:"level"`
	Icon  string      `json:"icon"`
}

// PollenForecast is one day of the short pollen outlook.
type PollenForecast struct {
	Day   string      `json:"day"`
	Level PollenLevel `json:"level"`
	Icon  string      `json:"icon"`
}

// PollenReport is the result of the pollen advisor.
type PollenReport struct {
	Date         string           `json:"date"`
	Season       Season           `json:"season"`
	OverallLevel PollenLevel      `json:"overall_level"`
	Types        []PollenType     `json:"pollen_types"`
	Advice       string           `json:"advice"`
	Forecast     []PollenForecast `json:"forecast"`
	Location     string           `json:"location"`
}
