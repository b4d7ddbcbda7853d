package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

const WeatherTool = "get_current_weather"

// WeatherReport is the current conditions at an airport.
type WeatherReport struct {
	Airport       string  `json:"airport"`
	City          string  `json:"city"`
	TemperatureC  float64 `json:"temperature_c"`
	WindSpeedKmh  float64 `json:"wind_speed_kmh"`
	Precipitation float64 `json:"precipitation_mm"`
	WeatherCode   int     `json:"weather_code"`
	Conditions    string  `json:"conditions"`
	ObservedAt    string  `json:"observed_at,omitempty"`
}

// WeatherClient calls the Open-Meteo current-weather API.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewWeatherClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter) *WeatherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &WeatherClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

type openMeteoResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

func (c *WeatherClient) Current(ctx context.Context, airport refdata.Airport) (*WeatherReport, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Source: "open-meteo", Err: err}
	}
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(airport.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(airport.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,wind_speed_10m,precipitation,weather_code")
	q.Set("timezone", "UTC")

	var out openMeteoResponse
	if err := getJSON(ctx, c.httpClient, "open-meteo", c.baseURL+"/v1/forecast?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &WeatherReport{
		Airport:       airport.Code,
		City:          airport.City,
		TemperatureC:  out.Current.Temperature,
		WindSpeedKmh:  out.Current.WindSpeed,
		Precipitation: out.Current.Precipitation,
		WeatherCode:   out.Current.WeatherCode,
		Conditions:    describeWeatherCode(out.Current.WeatherCode),
		ObservedAt:    out.Current.Time,
	}, nil
}

// describeWeatherCode maps WMO weather interpretation codes to words.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code == 66 || code == 67:
		return "freezing rain"
	case code >= 61 && code <= 65, code >= 80 && code <= 82:
		return "rain"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "snow"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}

func getJSON(ctx context.Context, hc *http.Client, source, u string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return &FetchError{Source: source, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
		return &FetchError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
