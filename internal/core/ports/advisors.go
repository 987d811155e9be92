package ports

import (
	"context"
	"time"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

// ClothingRequest asks for an outfit for a temperature and weather.
type ClothingRequest struct {
	Temperature int
	Weather     domain.Condition
	Style       domain.Style
	Gender      string

	// At defaults to the advisor clock when zero
	At time.Time
}

// ItemsRequest asks for things to carry.
type ItemsRequest struct {
	Temperature int
	Weather     domain.Condition
	Humidity    *int
	WindSpeed   *float64
}

// PollenRequest asks for the pollen report at a location.
type PollenRequest struct {
	Coordinates domain.Coordinates

	// Date defaults to the advisor clock when zero
	Date time.Time
}

// FortuneRequest asks for a fortune. With a zodiac sign the zodiac mode is
// used; otherwise scores are derived from the coordinates.
type FortuneRequest struct {
	Coordinates domain.Coordinates
	Zodiac      domain.Zodiac
	At          time.Time
}

// WeeklyRequest asks for outfits across a weekly forecast.
type WeeklyRequest struct {
	Forecast domain.WeeklyForecast
	Style    domain.Style
	Gender   string
}

type ClothingAdvisor interface {
	Suggest(ctx context.Context, req ClothingRequest) (*domain.ClothingSuggestion, error)
}

type ItemsAdvisor interface {
	Suggest(ctx context.Context, req ItemsRequest) (*domain.ItemsSuggestion, error)
}

type PollenAdvisor interface {
	Report(ctx context.Context, req PollenRequest) (*domain.PollenReport, error)
}

type FortuneAdvisor interface {
	Tell(ctx context.Context, req FortuneRequest) (*domain.FortuneReport, error)
}

type WeeklyAggregator interface {
	SuggestWeek(ctx context.Context, req WeeklyRequest) (*domain.WeeklyOutfits, error)
}
