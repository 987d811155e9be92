package openweather

import (
	"math"
	"strings"
	"time"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

// MapCondition converts an OpenWeather main group into a domain condition.
func MapCondition(main string) domain.Condition {
	switch strings.ToLower(main) {
	case "clear":
		return domain.Sunny
	case "clouds":
		return domain.Cloudy
	case "rain", "drizzle":
		return domain.Rainy
	case "snow":
		return domain.Snowy
	case "thunderstorm":
		return domain.Stormy
	case "mist", "fog", "haze":
		return domain.Foggy
	default:
		return domain.Cloudy
	}
}

// MapIcon converts an OpenWeather icon code such as "10d" into an emoji.
func MapIcon(code string) string {
	switch strings.TrimRight(code, "dn") {
	case "01":
		return "☀️"
	case "02", "03", "04":
		return "☁️"
	case "09", "10":
		return "🌧️"
	case "11":
		return "⛈️"
	case "13":
		return "❄️"
	case "50":
		return "🌫️"
	default:
		return "☁️"
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func parseCurrent(resp currentResponse, loc *time.Location) *domain.WeatherSnapshot {
	w := resp.Weather[0]

	return &domain.WeatherSnapshot{
		Current: domain.CurrentConditions{
			Temperature: round(resp.Main.Temp),
			FeelsLike:   round(resp.Main.FeelsLike),
			Condition:   MapCondition(w.Main),
			Description: w.Description,
			Icon:        MapIcon(w.Icon),
			Humidity:    resp.Main.Humidity,
			WindSpeed:   resp.Wind.Speed,
		},
		Today: domain.TodaySummary{
			MaxTemp: round(resp.Main.TempMax),
			MinTemp: round(resp.Main.TempMin),
			Sunrise: time.Unix(resp.Sys.Sunrise, 0).In(loc).Format("15:04"),
			Sunset:  time.Unix(resp.Sys.Sunset, 0).In(loc).Format("15:04"),
		},
	}
}

type dayBucket struct {
	date    time.Time
	temps   []float64
	weather []weatherEntry
}

// parseWeekly groups forecast entries by calendar day in loc, keeping the
// first seven days in order of appearance.
func parseWeekly(resp forecastResponse, loc *time.Location) []domain.DailyForecast {
	var order []string

	buckets := make(map[string]*dayBucket)

	for _, entry := range resp.List {
		if len(entry.Weather) == 0 {
			continue
		}

		at := time.Unix(entry.Dt, 0).In(loc)
		key := at.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{date: at}
			buckets[key] = b
			order = append(order, key)
		}

		b.temps = append(b.temps, entry.Main.Temp)
		b.weather = append(b.weather, entry.Weather[0])
	}

	if len(order) > 7 {
		order = order[:7]
	}

	days := make([]domain.DailyForecast, 0, len(order))

	for _, key := range order {
		b := buckets[key]
		condition, dominant := dominantWeather(b.weather)
		lo, hi := b.temps[0], b.temps[0]

		for _, t := range b.temps[1:] {
			lo = math.Min(lo, t)
			hi = math.Max(hi, t)
		}

		days = append(days, domain.DailyForecast{
			Date:            b.date.Format("01/02"),
			DayOfWeek:       domain.WeekdayLabel(b.date),
			MaxTemp:         round(hi),
			MinTemp:         round(lo),
			Condition:       condition,
			Description:     dominant.Description,
			Icon:            MapIcon(dominant.Icon),
			RainProbability: rainProbability(b.weather),
		})
	}

	return days
}

// dominantWeather returns the condition seen most often and the first entry
// carrying it. Among equally frequent conditions the one seen first wins.
func dominantWeather(entries []weatherEntry) (domain.Condition, weatherEntry) {
	counts := make(map[domain.Condition]int, len(entries))
	first := make(map[domain.Condition]weatherEntry, len(entries))
	var order []domain.Condition

	for _, e := range entries {
		c := MapCondition(e.Main)
		if _, seen := first[c]; !seen {
			first[c] = e
			order = append(order, c)
		}
		counts[c]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return best, first[best]
}

func rainProbability(entries []weatherEntry) int {
	rainy := 0

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Main), "rain") {
			rainy++
		}
	}

	return round(float64(rainy) / float64(len(entries)) * 100)
}
