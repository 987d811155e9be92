// Package rest implements the HTTP endpoints of the weather advisor.
// It is the primary adapter: it parses query parameters, calls the core
// ports and renders the common JSON envelope.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/middleware"
)

const (
	CodeInvalidParameters  = "INVALID_PARAMETERS"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Services groups the core ports the handler calls.
type Services struct {
	Gateway  ports.WeatherGateway
	Clothing ports.ClothingAdvisor
	Items    ports.ItemsAdvisor
	Pollen   ports.PollenAdvisor
	Fortune  ports.FortuneAdvisor
	Weekly   ports.WeeklyAggregator
}

// Handler serves the /api/v1 endpoints.
type Handler struct {
	services Services
	logger   *zap.Logger

	// loc interprets the pollen date parameter
	loc *time.Location
	now func() time.Time
}

// NewHandler creates the REST handler.
//
// Parameters:
//   - services: Core ports backing each endpoint
//   - loc: Calendar location for date parameters (nil means UTC)
//   - logger: Zap logger for error tracking
//
// Returns:
//   - *Handler: Configured handler instance
func NewHandler(services Services, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{
		services: services,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Status    string      `json:"status"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
}

// ErrorBody carries a machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Status    string    `json:"status"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// RegisterRoutes mounts the advisor endpoints on router under /api/v1.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(responseHeaders)

	api.HandleFunc("/weather", h.GetWeather).Methods(http.MethodGet)
	api.HandleFunc("/weather/weekly", h.GetWeeklyWeather).Methods(http.MethodGet)
	api.HandleFunc("/clothing", h.GetClothing).Methods(http.MethodGet)
	api.HandleFunc("/clothing/weekly", h.GetWeeklyClothing).Methods(http.MethodGet)
	api.HandleFunc("/items", h.GetItems).Methods(http.MethodGet)
	api.HandleFunc("/pollen", h.GetPollen).Methods(http.MethodGet)
	api.HandleFunc("/fortune", h.GetFortune).Methods(http.MethodGet)
}

// responseHeaders sets the caching and hardening headers shared by every API response.
func responseHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// GetWeather handles GET /api/v1/weather?lat&lon.
//
// Response codes:
//   - 200: Current weather snapshot (live or fallback)
//   - 400: Missing or invalid coordinates
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	snapshot := h.services.Gateway.FetchCurrent(r.Context(), coords, time.Time{})
	h.respondWithData(w, snapshot, "Weather data retrieved successfully")
}

// GetWeeklyWeather handles GET /api/v1/weather/weekly?lat&lon.
func (h *Handler) GetWeeklyWeather(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	forecast := h.services.Gateway.FetchWeekly(r.Context(), coords, time.Time{})
	h.respondWithData(w, forecast, "Weekly weather forecast retrieved successfully")
}

// GetClothing handles GET /api/v1/clothing?temperature&weather[&style&gender].
func (h *Handler) GetClothing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.requireParams(w, r, "temperature", "weather") {
		return
	}

	temperature, err := parseTemperature(q.Get("temperature"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid temperature value")
		return
	}

	suggestion, err := h.services.Clothing.Suggest(r.Context(), ports.ClothingRequest{
		Temperature: temperature,
		Weather:     domain.Condition(q.Get("weather")),
		Style:       domain.Style(q.Get("style")),
		Gender:      q.Get("gender"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithData(w, suggestion, "Clothing suggestion retrieved successfully")
}

// GetWeeklyClothing handles GET /api/v1/clothing/weekly?lat&lon[&style&gender].
// It composes the weekly forecast from the gateway with the weekly aggregator.
func (h *Handler) GetWeeklyClothing(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	forecast := h.services.Gateway.FetchWeekly(r.Context(), coords, time.Time{})

	plan, err := h.services.Weekly.SuggestWeek(r.Context(), ports.WeeklyRequest{
		Forecast: forecast,
		Style:    domain.Style(q.Get("style")),
		Gender:   q.Get("gender"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithData(w, plan, "Weekly clothing suggestions retrieved successfully")
}

// GetItems handles GET /api/v1/items?temperature&weather[&humidity&wind_speed].
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.requireParams(w, r, "temperature", "weather") {
		return
	}

	temperature, err := parseTemperature(q.Get("temperature"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid temperature value")
		return
	}

	humidity, err := optionalInt(q.Get("humidity"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid humidity value")
		return
	}

	wind, err := optionalFloat(q.Get("wind_speed"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid wind_speed value")
		return
	}

	suggestion, err := h.services.Items.Suggest(r.Context(), ports.ItemsRequest{
		Temperature: temperature,
		Weather:     domain.Condition(q.Get("weather")),
		Humidity:    humidity,
		WindSpeed:   wind,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithData(w, suggestion, "Item suggestions retrieved successfully")
}

// GetPollen handles GET /api/v1/pollen?lat&lon[&date=YYYY-MM-DD].
func (h *Handler) GetPollen(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, CodeInvalidParameters, "Invalid date, expected YYYY-MM-DD")
			return
		}

		date = parsed
	}

	report, err := h.services.Pollen.Report(r.Context(), ports.PollenRequest{Coordinates: coords, Date: date})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithData(w, report, "Pollen data retrieved successfully")
}

// GetFortune handles GET /api/v1/fortune?lat&lon[&zodiac].
func (h *Handler) GetFortune(w http.ResponseWriter, r *http.Request) {
	coords, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	report, err := h.services.Fortune.Tell(r.Context(), ports.FortuneRequest{
		Coordinates: coords,
		Zodiac:      domain.Zodiac(r.URL.Query().Get("zodiac")),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithData(w, report, "Fortune data retrieved successfully")
}

func (h *Handler) timestamp() string {
	return h.now().In(h.loc).Format(time.RFC3339)
}

func (h *Handler) respondWithData(w http.ResponseWriter, data interface{}, message string) {
	h.respondWithJSON(w, http.StatusOK, SuccessResponse{
		Status:    "success",
		Data:      data,
		Message:   message,
		Timestamp: h.timestamp(),
	})
}

// respondWithJSON sends a JSON response with the specified status code.
func (h *Handler) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondWithError sends a standardized error response.
func (h *Handler) respondWithError(w http.ResponseWriter, status int, code, message string) {
	h.respondWithJSON(w, status, ErrorResponse{
		Status:    "error",
		Error:     ErrorBody{Code: code, Message: message},
		Timestamp: h.timestamp(),
	})
}

// handleServiceError maps core errors to HTTP responses.
//
// Error mappings:
//   - AdvisorError.INVALID_INPUT -> 400 Bad Request
//   - AdvisorError.UPSTREAM_UNAVAILABLE -> 503 Service Unavailable
//   - Other errors -> 500 Internal Server Error
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var e *domain.AdvisorError

	if errors.As(err, &e) {
		switch e.Code {
		case domain.CodeInvalidInput:
			message := e.Message
			if e.Cause != nil {
				message += ": " + e.Cause.Error()
			}

			h.respondWithError(w, http.StatusBadRequest, e.Code, message)
			return
		case domain.CodeUpstreamUnavailable:
			h.respondWithError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "Weather service temporarily unavailable")
			return
		}
	}

	h.logger.Error("unexpected error",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
	)

	h.respondWithError(w, http.StatusInternalServerError, CodeInternalError, "An unexpected error occurred")
}
