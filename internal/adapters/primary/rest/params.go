package rest

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

// requireParams responds with 400 and returns false when any of names is blank.
func (h *Handler) requireParams(w http.ResponseWriter, r *http.Request, names ...string) bool {
	var missing []string

	for _, name := range names {
		if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters,
			"Missing required parameters: "+strings.Join(missing, ", "))
		return false
	}

	return true
}

// coordinates parses and range-checks lat and lon, responding with 400 on failure.
func (h *Handler) coordinates(w http.ResponseWriter, r *http.Request) (domain.Coordinates, bool) {
	if !h.requireParams(w, r, "lat", "lon") {
		return domain.Coordinates{}, false
	}

	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	coords := domain.Coordinates{Latitude: lat, Longitude: lon}

	if latErr != nil || lonErr != nil || coords.Validate() != nil {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid latitude or longitude values")
		return domain.Coordinates{}, false
	}

	return coords, true
}

// parseTemperature accepts integers and decimals; decimals truncate toward zero.
func parseTemperature(raw string) (int, error) {
	if t, err := strconv.Atoi(raw); err == nil {
		return t, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}

	return int(f), nil
}

func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}

	return &v, nil
}
