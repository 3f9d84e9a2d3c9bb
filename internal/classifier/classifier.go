package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/anupamsr/skydoc/internal/domain"
)

// Rules is the table the classifier matches against. Callers can extend the
// keyword set, gazetteer or extraction patterns without touching control flow.
type Rules struct {
	WeatherKeywords []string
	AQIKeywords     []string
	Cities          []string
	CityPatterns    []*regexp.Regexp
}

// DefaultRules returns the built-in keyword set, city gazetteer and
// extraction patterns.
func DefaultRules() Rules {
	return Rules{
		WeatherKeywords: []string{
			"weather", "temperature", "forecast", "humidity", "wind",
			"rain", "snow", "sunny", "cloudy", "hot", "cold", "degrees",
			"celsius", "fahrenheit", "precipitation", "atmosphere", "aqi",
			"air quality", "pollution", "air quality index",
		},
		AQIKeywords: []string{
			"aqi", "air quality", "pollution", "air quality index",
		},
		Cities: []string{
			"london", "new york", "tokyo", "paris", "berlin", "moscow",
			"beijing", "sydney", "toronto", "vancouver", "san francisco",
			"los angeles", "chicago", "miami", "boston", "seattle", "denver",
			"phoenix", "dallas", "houston", "atlanta",
			"delhi", "mumbai", "bangalore", "chennai", "kolkata", "hyderabad",
			"pune", "ahmedabad", "jaipur", "lucknow", "kanpur", "nagpur",
			"indore", "thane", "bhopal", "visakhapatnam", "patna", "vadodara",
			"ghaziabad", "ludhiana",
		},
		CityPatterns: []*regexp.Regexp{
			regexp.MustCompile(`weather in (\w+)`),
			regexp.MustCompile(`temperature in (\w+)`),
			regexp.MustCompile(`forecast for (\w+)`),
			regexp.MustCompile(`(\w+) weather`),
			regexp.MustCompile(`(\w+) temperature`),
		},
	}
}

// Classifier labels a query as weather or document and, for weather queries,
// extracts a city name. Classification is a pure membership test, total over
// any input string.
type Classifier struct {
	rules Rules
}

// New creates a Classifier with the given rule table.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify labels the query and extracts a city for the weather branch.
// An empty City means no city could be extracted; the caller decides the
// fallback.
func (c *Classifier) Classify(query string) domain.Classification {
	q := strings.ToLower(query)

	result := domain.Classification{Type: domain.QueryTypeDocument}

	for _, kw := range c.rules.WeatherKeywords {
		if strings.Contains(q, kw) {
			result.Type = domain.QueryTypeWeather
			break
		}
	}

	if result.Type != domain.QueryTypeWeather {
		return result
	}

	for _, kw := range c.rules.AQIKeywords {
		if strings.Contains(q, kw) {
			result.AQI = true
			break
		}
	}

	result.City = c.extractCity(q)

	return result
}

// extractCity tries the gazetteer first, then the extraction patterns.
func (c *Classifier) extractCity(q string) string {
	for _, city := range c.rules.Cities {
		if strings.Contains(q, city) {
			return TitleCase(city)
		}
	}

	for _, pattern := range c.rules.CityPatterns {
		if m := pattern.FindStringSubmatch(q); len(m) > 1 {
			return TitleCase(m[1])
		}
	}

	return ""
}

// TitleCase upper-cases the first letter of each space-separated word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
