package domain

// WeatherSnapshot holds the metrics fetched for one city. It is ephemeral,
// fetched per query and never cached. A failed fetch is represented by the
// Error variant so the pipeline can still carry it forward as context.
type WeatherSnapshot struct {
	City          string  `json:"city"`
	Country       string  `json:"country"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	Description   string  `json:"description"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	Visibility    int     `json:"visibility"`
	Sunrise       int64   `json:"sunrise"`
	Sunset        int64   `json:"sunset"`

	// AQI placeholder fields; real air-quality data needs a separate API.
	AQINote          string   `json:"aqi_note,omitempty"`
	SuggestedAQIAPIs []string `json:"suggested_aqi_apis,omitempty"`

	Error string `json:"error,omitempty"`
}
