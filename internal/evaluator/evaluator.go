package evaluator

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/anupamsr/skydoc/internal/domain"
)

var wordPattern = regexp.MustCompile(`\w+`)

// failureVocab marks responses that admit an upstream failure; they score
// low on accuracy regardless of surface quality.
var failureVocab = []string{"error", "failed", "unavailable", "limitation"}

var weatherIndicators = []string{"temperature", "humidity", "wind", "pressure", "°c", "°f"}

// Evaluator scores a response against a fixed rubric: accuracy, relevance,
// completeness and clarity, each on a 1..5 scale.
type Evaluator struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Evaluate scores response for query. A scoring panic degrades to a neutral
// all-threes evaluation rather than propagating.
func (e *Evaluator) Evaluate(query, response string, queryType domain.QueryType) (ev domain.ResponseEvaluation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panicked", zap.Any("panic", r))
			ev = domain.ResponseEvaluation{
				Accuracy:     3,
				Relevance:    3,
				Completeness: 3,
				Clarity:      3,
				OverallScore: 3.0,
				Error:        fmt.Sprintf("evaluation failed: %v", r),
			}
		}
	}()

	ev.Accuracy = scoreAccuracy(response, queryType)
	ev.Relevance = scoreRelevance(query, response)
	ev.Completeness = scoreCompleteness(response)
	ev.Clarity = scoreClarity(response)
	ev.OverallScore = float64(ev.Accuracy+ev.Relevance+ev.Completeness+ev.Clarity) / 4.0
	ev.Feedback = feedback(ev)
	return ev
}

func scoreAccuracy(response string, queryType domain.QueryType) int {
	if strings.TrimSpace(response) == "" {
		return 1
	}
	lower := strings.ToLower(response)
	for _, word := range failureVocab {
		if strings.Contains(lower, word) {
			return 2
		}
	}
	switch queryType {
	case domain.QueryTypeWeather:
		for _, ind := range weatherIndicators {
			if strings.Contains(lower, ind) {
				return 4
			}
		}
		return 3
	case domain.QueryTypeDocument:
		if strings.Contains(lower, "document") || strings.Contains(lower, "chunk") {
			return 4
		}
		return 3
	default:
		return 3
	}
}

func scoreRelevance(query, response string) int {
	if strings.TrimSpace(response) == "" {
		return 1
	}
	queryWords := tokenSet(query)
	responseWords := tokenSet(response)

	overlap := 0
	for word := range queryWords {
		if responseWords[word] {
			overlap++
		}
	}
	if overlap == 0 {
		return 3
	}
	score := 3 + overlap
	if score > 5 {
		score = 5
	}
	return score
}

func scoreCompleteness(response string) int {
	if strings.TrimSpace(response) == "" {
		return 1
	}
	words := len(strings.Fields(response))
	switch {
	case words < 10:
		return 2
	case words < 50:
		return 3
	case words < 200:
		return 4
	default:
		return 5
	}
}

// scoreClarity starts every response at the base score, including an empty
// one: emptiness is already floored to 1 by the other three axes, and clarity
// measures only structure. Keep it that way; lowering the empty case changes
// the overall score of every degraded run.
func scoreClarity(response string) int {
	score := 3
	if strings.Contains(response, "#") || strings.Contains(response, "**") {
		score++
	}
	if hasListMarker(response) {
		score++
	}
	if strings.Contains(response, "\n\n") {
		score++
	}
	if score > 5 {
		score = 5
	}
	return score
}

func hasListMarker(response string) bool {
	for _, marker := range []string{"•", "- ", "* ", "1.", "2."} {
		if strings.Contains(response, marker) {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		set[word] = true
	}
	return set
}

func feedback(ev domain.ResponseEvaluation) []string {
	var notes []string
	if ev.Accuracy < 3 {
		notes = append(notes, "Response accuracy could be improved")
	}
	if ev.Relevance < 3 {
		notes = append(notes, "Response could be more relevant to the query")
	}
	if ev.Completeness < 3 {
		notes = append(notes, "Response could be more complete")
	}
	if ev.Clarity < 3 {
		notes = append(notes, "Response structure and clarity could be improved")
	}
	switch {
	case ev.OverallScore >= 4:
		notes = append(notes, "Excellent response quality")
	case ev.OverallScore >= 3:
		notes = append(notes, "Good response quality")
	default:
		notes = append(notes, "Response quality needs improvement")
	}
	return notes
}

// Summary renders the evaluation as a markdown scorecard.
func Summary(ev domain.ResponseEvaluation) string {
	var sb strings.Builder
	sb.WriteString("## 📊 Response Evaluation\n\n")
	fmt.Fprintf(&sb, "- **Accuracy:** %d/5\n", ev.Accuracy)
	fmt.Fprintf(&sb, "- **Relevance:** %d/5\n", ev.Relevance)
	fmt.Fprintf(&sb, "- **Completeness:** %d/5\n", ev.Completeness)
	fmt.Fprintf(&sb, "- **Clarity:** %d/5\n", ev.Clarity)
	fmt.Fprintf(&sb, "\n**Overall Score:** %.2f/5\n", ev.OverallScore)
	if len(ev.Feedback) > 0 {
		sb.WriteString("\n**Feedback:**\n")
		for _, note := range ev.Feedback {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}
	return sb.String()
}
