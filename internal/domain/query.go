package domain

// QueryType labels which retrieval branch a query is routed to.
type QueryType string

const (
	QueryTypeWeather  QueryType = "weather"
	QueryTypeDocument QueryType = "document"
)

// Classification is the outcome of routing a raw query. It is derived
// deterministically from the query text and never persisted.
type Classification struct {
	Type QueryType `json:"query_type"`
	City string    `json:"extracted_city,omitempty"`
	AQI  bool      `json:"aqi_query,omitempty"`
}

// StageFailure records a pipeline stage whose failure was converted into a
// degraded value instead of aborting the run.
type StageFailure struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// QueryRequest is the request to process a query
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// PipelineResult is the terminal artifact of one pipeline run
type PipelineResult struct {
	Query         string              `json:"query"`
	QueryType     QueryType           `json:"query_type"`
	Response      string              `json:"response"`
	Evaluation    *ResponseEvaluation `json:"evaluation"`
	WeatherData   *WeatherSnapshot    `json:"weather_data,omitempty"`
	RetrievedDocs []RetrievedResult   `json:"retrieved_docs,omitempty"`
	Degraded      []StageFailure      `json:"degraded,omitempty"`
}
