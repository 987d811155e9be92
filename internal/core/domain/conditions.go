package domain

import (
	"fmt"
	"strings"
	"time"
)

// Style selects which outfit table the clothing advisor uses.
type Style string

const (
	Business Style = "business"
	Casual   Style = "casual"
	Child    Style = "child"
)

// DefaultStyle is used when the caller does not specify a style.
const DefaultStyle = Business

// ParseStyle converts a caller supplied string into a Style. An empty string
// yields DefaultStyle.
func ParseStyle(s string) (Style, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return DefaultStyle, nil
	}

	switch st := Style(trimmed); st {
	case Business, Casual, Child:
		return st, nil
	default:
		return "", fmt.Errorf("unknown style %q", s)
	}
}

// DefaultGender is echoed into cache keys when the caller does not specify one.
const DefaultGender = "unisex"

// Zodiac is one of the twelve western zodiac signs.
type Zodiac string

const (
	Aries       Zodiac = "aries"
	Taurus      Zodiac = "taurus"
	Gemini      Zodiac = "gemini"
	Cancer      Zodiac = "cancer"
	Leo         Zodiac = "leo"
	Virgo       Zodiac = "virgo"
	Libra       Zodiac = "libra"
	Scorpio     Zodiac = "scorpio"
	Sagittarius Zodiac = "sagittarius"
	Capricorn   Zodiac = "capricorn"
	Aquarius    Zodiac = "aquarius"
	Pisces      Zodiac = "pisces"
)

// Zodiacs lists every sign in calendar order.
var Zodiacs = []Zodiac{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// ParseZodiac converts a caller supplied string into a Zodiac. An empty string
// yields ("", nil), meaning no sign was given.
func ParseZodiac(s string) (Zodiac, error) {
	trimmed := Zodiac(strings.ToLower(strings.TrimSpace(s)))
	if trimmed == "" {
		return "", nil
	}

	for _, z := range Zodiacs {
		if z == trimmed {
			return z, nil
		}
	}

	return "", fmt.Errorf("unknown zodiac sign %q", s)
}

// Conditions is the immutable input bundle evaluated by the advisors.
// Optional values are nil when absent.
type Conditions struct {
	Temperature int
	Weather     Condition
	Humidity    *int
	WindSpeed   *float64
	Style       Style
	Gender      string
	Coordinates *Coordinates
	Date        *time.Time
	Zodiac      Zodiac
}

// Validate checks the optional numeric inputs and enumerations.
func (c Conditions) Validate() error {
	if _, err := ParseCondition(string(c.Weather)); err != nil {
		return err
	}

	if c.Humidity != nil && (*c.Humidity < 0 || *c.Humidity > 100) {
		return fmt.Errorf("humidity must be between 0 and 100, got %d", *c.Humidity)
	}

	if c.WindSpeed != nil && *c.WindSpeed < 0 {
		return fmt.Errorf("wind speed must not be negative, got %f", *c.WindSpeed)
	}

	if c.Style != "" {
		if _, err := ParseStyle(string(c.Style)); err != nil {
			return err
		}
	}

	if c.Coordinates != nil {
		if err := c.Coordinates.Validate(); err != nil {
			return err
		}
	}

	if c.Zodiac != "" {
		if _, err := ParseZodiac(string(c.Zodiac)); err != nil {
			return err
		}
	}

	return nil
}
