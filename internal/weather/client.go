package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anupamsr/skydoc/internal/domain"
)

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// indianCities maps known Indian cities to coordinates; lookups for these go
// through the coordinates endpoint.
var indianCities = map[string]Coordinates{
	"delhi":         {28.6139, 77.2090},
	"mumbai":        {19.0760, 72.8777},
	"bangalore":     {12.9716, 77.5946},
	"chennai":       {13.0827, 80.2707},
	"kolkata":       {22.5726, 88.3639},
	"hyderabad":     {17.3850, 78.4867},
	"pune":          {18.5204, 73.8567},
	"ahmedabad":     {23.0225, 72.5714},
	"jaipur":        {26.9124, 75.7873},
	"lucknow":       {26.8467, 80.9462},
	"kanpur":        {26.4499, 80.3319},
	"nagpur":        {21.1458, 79.0882},
	"indore":        {22.7196, 75.8577},
	"thane":         {19.2183, 72.9781},
	"bhopal":        {23.2599, 77.4126},
	"visakhapatnam": {17.6868, 83.2185},
	"patna":         {25.5941, 85.1376},
	"vadodara":      {22.3072, 73.1812},
	"ghaziabad":     {28.6654, 77.4391},
	"ludhiana":      {30.9010, 75.8573},
}

// Config configures the OpenWeatherMap client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client fetches current weather from the OpenWeatherMap API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a weather Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ByCity fetches weather for a city. Known Indian cities resolve through
// their coordinates.
func (c *Client) ByCity(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	if coords, ok := indianCities[strings.ToLower(city)]; ok {
		return c.ByCoordinates(ctx, coords.Lat, coords.Lon)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	return c.fetch(ctx, params)
}

// ByCoordinates fetches weather for a lat/lon pair.
func (c *Client) ByCoordinates(ctx context.Context, lat, lon float64) (*domain.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	return c.fetch(ctx, params)
}

// AQIInfo returns weather data annotated with an AQI placeholder note.
// Real air-quality data needs a separate API; only Indian cities are covered.
func (c *Client) AQIInfo(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	coords, ok := indianCities[strings.ToLower(city)]
	if !ok {
		return nil, fmt.Errorf("%w: city %s not found in Indian cities database",
			domain.ErrUpstream, city)
	}

	snapshot, err := c.ByCoordinates(ctx, coords.Lat, coords.Lon)
	if err != nil {
		return nil, err
	}

	snapshot.AQINote = "AQI data requires separate API integration"
	snapshot.SuggestedAQIAPIs = []string{
		"AirVisual API",
		"WAQI (World Air Quality Index)",
		"OpenWeatherMap Air Pollution API",
	}

	return snapshot, nil
}

// IndianCities returns the lower-cased Indian city names, sorted.
func (c *Client) IndianCities() []string {
	cities := make([]string, 0, len(indianCities))
	for city := range indianCities {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*domain.WeatherSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building weather request: %v", domain.ErrUpstream, err)
	}

	rsp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: weather request failed: %v", domain.ErrUpstream, err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: weather API returned %s", domain.ErrUpstream, rsp.Status)
	}

	var data owmResponse
	if err := json.NewDecoder(rsp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decoding weather response: %v", domain.ErrUpstream, err)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("%w: unexpected weather data format", domain.ErrUpstream)
	}

	return &domain.WeatherSnapshot{
		City:          data.Name,
		Country:       data.Sys.Country,
		Temperature:   data.Main.Temp,
		FeelsLike:     data.Main.FeelsLike,
		Humidity:      data.Main.Humidity,
		Pressure:      data.Main.Pressure,
		Description:   data.Weather[0].Description,
		WindSpeed:     data.Wind.Speed,
		WindDirection: data.Wind.Deg,
		Visibility:    data.Visibility,
		Sunrise:       data.Sys.Sunrise,
		Sunset:        data.Sys.Sunset,
	}, nil
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}
