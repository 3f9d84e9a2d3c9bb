package weather

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anupamsr/skydoc/internal/domain"
)

// FormatReport renders a snapshot as a fixed-field report. It is the
// generator's fallback when the completion service is unavailable.
func FormatReport(w *domain.WeatherSnapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🌤️ Weather Report for %s, %s\n\n", w.City, w.Country)
	fmt.Fprintf(&sb, "🌡️ Temperature: %.1f°C (feels like %.1f°C)\n", w.Temperature, w.FeelsLike)
	fmt.Fprintf(&sb, "💧 Humidity: %d%%\n", w.Humidity)
	fmt.Fprintf(&sb, "🌪️ Wind: %.1f m/s\n", w.WindSpeed)
	fmt.Fprintf(&sb, "📊 Pressure: %d hPa\n", w.Pressure)
	fmt.Fprintf(&sb, "👁️ Visibility: %d meters\n", w.Visibility)
	fmt.Fprintf(&sb, "☁️ Conditions: %s", titleCase(w.Description))

	if w.AQINote != "" {
		fmt.Fprintf(&sb, "\n\n⚠️ %s", w.AQINote)
	}

	return sb.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
