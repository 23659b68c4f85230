// Package weather fetches current conditions for an airport's
// coordinates from the open-meteo API. It is purely decorative for the
// game: a failed lookup never blocks play.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Report is the subset of the forecast response the game shows.
type Report struct {
	TemperatureC  float64 `json:"temperature_c"`
	WindSpeedKMH  float64 `json:"wind_speed_kmh"`
	WindDirection float64 `json:"wind_direction_deg"`
	WeatherCode   int     `json:"weather_code"`
	Time          string  `json:"time"`
}

// Client talks to the forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. An empty baseURL selects the public
// open-meteo endpoint; tests point it at a local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// forecastResponse mirrors the open-meteo current_weather payload.
type forecastResponse struct {
	CurrentWeather struct {
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection float64 `json:"winddirection"`
		WeatherCode   int     `json:"weathercode"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
}

// Current fetches the current conditions at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Report, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lng))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	var raw forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Report{}, fmt.Errorf("parsing forecast: %w", err)
	}

	cw := raw.CurrentWeather
	return Report{
		TemperatureC:  cw.Temperature,
		WindSpeedKMH:  cw.WindSpeed,
		WindDirection: cw.WindDirection,
		WeatherCode:   cw.WeatherCode,
		Time:          cw.Time,
	}, nil
}
