// Package domain contains the core business entities of the weather advisor.
// This package defines the value types exchanged between the advisors, the
// weather gateway and the outer adapters, independent of any framework.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Coordinates represent a geographic location using latitude and longitude.
type Coordinates struct {
	// Latitude specifies the north-south position (-90 to 90 degrees)
	Latitude float64 `json:"lat"`

	// Longitude specifies the east-west position (-180 to 180 degrees)
	Longitude float64 `json:"lon"`
}

// Validate checks if the coordinates are within valid geographic bounds.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", c.Latitude)
	}

	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", c.Longitude)
	}

	return nil
}

// Condition is the canonical weather category used by every advisor.
type Condition string

const (
	Sunny  Condition = "sunny"
	Cloudy Condition = "cloudy"
	Rainy  Condition = "rainy"
	Snowy  Condition = "snowy"

	// Stormy and Foggy are only produced by the weather gateway. Advisors
	// accept them but have no dedicated rules for them.
	Stormy Condition = "stormy"
	Foggy  Condition = "foggy"
)

// ParseCondition converts a caller supplied string into a Condition.
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToLower(strings.TrimSpace(s))); c {
	case Sunny, Cloudy, Rainy, Snowy, Stormy, Foggy:
		return c, nil
	default:
		return "", fmt.Errorf("unknown weather condition %q", s)
	}
}

// Source tells whether a snapshot came from the upstream provider or was
// synthesized after an upstream failure.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// CurrentConditions holds the observed values of a weather snapshot.
type CurrentConditions struct {
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feels_like"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	UVIndex     int       `json:"uv_index"`
}

// TodaySummary holds the daily aggregates of a weather snapshot.
type TodaySummary struct {
	MaxTemp         int    `json:"max_temp"`
	MinTemp         int    `json:"min_temp"`
	RainProbability int    `json:"rain_probability"`
	Sunrise         string `json:"sunrise"`
	Sunset          string `json:"sunset"`
}

// Location annotates weather data with the resolved place name.
type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

// WeatherSnapshot is the current weather at a location.
type WeatherSnapshot struct {
	Current  CurrentConditions `json:"current"`
	Today    TodaySummary      `json:"today"`
	Location Location          `json:"location"`
	Source   Source            `json:"source"`
}

// DailyForecast is one calendar day of a weekly forecast.
type DailyForecast struct {
	// Date is formatted as MM/DD
	Date string `json:"date"`

	// DayOfWeek is the single character Japanese weekday label
	DayOfWeek       string    `json:"day_of_week"`
	MaxTemp         int       `json:"max_temp"`
	MinTemp         int       `json:"min_temp"`
	Condition       Condition `json:"condition"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	RainProbability int       `json:"rain_probability"`
}

// WeeklyForecast holds up to seven daily forecasts for a location.
type WeeklyForecast struct {
	Location Location        `json:"location"`
	Days     []DailyForecast `json:"weekly_forecast"`
	Source   Source          `json:"source"`
}

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayLabel returns the single character Japanese weekday of t.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[t.Weekday()]
}
