package classifier

import (
	"testing"

	"github.com/anupamsr/skydoc/internal/domain"
)

func TestClassify_WeatherKeywords(t *testing.T) {
	c := New(DefaultRules())

	weatherQueries := []string{
		"What's the weather like today?",
		"current TEMPERATURE in berlin",
		"will it rain tomorrow",
		"forecast for the weekend",
		"how is the humidity",
		"what is the AQI in delhi",
		"is it sunny outside",
	}
	for _, q := range weatherQueries {
		if got := c.Classify(q); got.Type != domain.QueryTypeWeather {
			t.Errorf("Classify(%q).Type = %s, want weather", q, got.Type)
		}
	}

	documentQueries := []string{
		"Explain the AutoGen framework",
		"summarize the uploaded paper",
		"what are conversable agents",
		"",
	}
	for _, q := range documentQueries {
		if got := c.Classify(q); got.Type != domain.QueryTypeDocument {
			t.Errorf("Classify(%q).Type = %s, want document", q, got.Type)
		}
	}
}

func TestClassify_AQIDetection(t *testing.T) {
	c := New(DefaultRules())
	if got := c.Classify("what is the air quality in mumbai"); !got.AQI {
		t.Error("expected AQI flag for air quality query")
	}
	if got := c.Classify("what's the weather in paris"); got.AQI {
		t.Error("did not expect AQI flag for plain weather query")
	}
}

func TestClassify_CityFromGazetteer(t *testing.T) {
	c := New(DefaultRules())

	tests := []struct {
		query string
		city  string
	}{
		{"What's the weather in Paris?", "Paris"},
		{"weather in new york right now", "New York"},
		{"temperature in MUMBAI please", "Mumbai"},
		{"san francisco weather", "San Francisco"},
	}
	for _, tt := range tests {
		got := c.Classify(tt.query)
		if got.City != tt.city {
			t.Errorf("Classify(%q).City = %q, want %q", tt.query, got.City, tt.city)
		}
	}
}

func TestClassify_CityFromPattern(t *testing.T) {
	c := New(DefaultRules())

	// Cities not in the gazetteer fall through to the regex patterns.
	tests := []struct {
		query string
		city  string
	}{
		{"weather in oslo", "Oslo"},
		{"temperature in nairobi", "Nairobi"},
		{"forecast for lagos", "Lagos"},
		{"reykjavik weather", "Reykjavik"},
	}
	for _, tt := range tests {
		got := c.Classify(tt.query)
		if got.City != tt.city {
			t.Errorf("Classify(%q).City = %q, want %q", tt.query, got.City, tt.city)
		}
	}
}

func TestClassify_NoCity(t *testing.T) {
	c := New(DefaultRules())
	got := c.Classify("is it hot today")
	if got.Type != domain.QueryTypeWeather {
		t.Fatalf("expected weather classification, got %s", got.Type)
	}
	if got.City != "" {
		t.Errorf("expected no city, got %q", got.City)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("new york"); got != "New York" {
		t.Errorf("TitleCase = %q", got)
	}
	if got := TitleCase("delhi"); got != "Delhi" {
		t.Errorf("TitleCase = %q", got)
	}
	// Words starting with a multi-byte rune must not be mangled.
	if got := TitleCase("über münchen"); got != "Über München" {
		t.Errorf("TitleCase = %q", got)
	}
}
