package domain

// ItemSuggestion is a single thing worth carrying.
type ItemSuggestion struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Reason string `json:"reason"`
}

// RiskFactor flags a hazard derived from the conditions.
type RiskFactor string

const (
	RiskHypothermia        RiskFactor = "hypothermia"
	RiskHeatstroke         RiskFactor = "heatstroke"
	RiskSlipperyConditions RiskFactor = "slippery_conditions"
	RiskStrongWind         RiskFactor = "strong_wind"
)

// WeatherSummary echoes the evaluated conditions.
type WeatherSummary struct {
	Temperature  int          `json:"temperature"`
	Weather      Condition    `json:"weather"`
	ComfortLevel ComfortLevel `json:"comfort_level"`
	RiskFactors  []RiskFactor `json:"risk_factors"`
}

// ItemsSuggestion is the result of the items advisor. Lists keep insertion
// order and may contain the same name more than once.
type ItemsSuggestion struct {
	Essential      []ItemSuggestion `json:"essential_items"`
	Optional       []ItemSuggestion `json:"optional_items"`
	Advice         string           `json:"advice"`
	WeatherSummary WeatherSummary   `json:"weather_summary"`
}
