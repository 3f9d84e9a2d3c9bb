package generator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/llm"
	"github.com/anupamsr/skydoc/internal/weather"
)

const (
	maxFallbackSections   = 3
	fallbackSectionLength = 400
)

// Generator produces a natural-language response from retrieved context.
// It never fails: when the completion call errors, a deterministic template
// takes over and the degraded reason is reported to the caller.
type Generator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// New creates a Generator.
func New(completer llm.Completer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, logger: logger}
}

// Generate builds a response for the query from whichever context the branch
// produced. The returned degraded reason is empty when the completion call
// succeeded or was not needed.
func (g *Generator) Generate(
	ctx context.Context,
	queryType domain.QueryType,
	snapshot *domain.WeatherSnapshot,
	docs []domain.RetrievedResult,
	query string,
) (response string, degraded string) {
	switch queryType {
	case domain.QueryTypeWeather:
		return g.weatherResponse(ctx, snapshot, query)
	case domain.QueryTypeDocument:
		return g.documentResponse(ctx, docs, query)
	default:
		return "I'm not sure how to handle this type of query.", ""
	}
}

func (g *Generator) weatherResponse(ctx context.Context, snapshot *domain.WeatherSnapshot, query string) (string, string) {
	if snapshot == nil || snapshot.Error != "" {
		reason := "no weather data"
		if snapshot != nil {
			reason = snapshot.Error
		}
		return fmt.Sprintf("Sorry, I couldn't get weather information: %s", reason), ""
	}

	prompt := fmt.Sprintf(`Weather Data:
%s

User Query: %s

Please provide a comprehensive weather analysis and response.`, weather.FormatReport(snapshot), query)

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("completion failed, using weather fallback", zap.Error(err))
		fallback := weather.FormatReport(snapshot) +
			"\n\n⚠️ Note: Using fallback response due to API limitations."
		return fallback, err.Error()
	}

	return text, ""
}

func (g *Generator) documentResponse(ctx context.Context, docs []domain.RetrievedResult, query string) (string, string) {
	if len(docs) == 0 {
		return "I don't have enough information in my knowledge base to answer this question. " +
			"Please upload a document first.", ""
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	prompt := fmt.Sprintf(`Based on the following document content, provide a comprehensive and well-structured answer to the user's question.

Document Content:
%s

User Question: %s

Instructions:
1. Provide a clear, direct answer to the question
2. Use information from the document content
3. Structure your response with proper paragraphs
4. Include key concepts and definitions
5. Make it easy to read and understand
6. If the document doesn't contain enough information, say so clearly

Please answer the question based on the provided document content.`, strings.Join(contents, "\n\n"), query)

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("completion failed, using document fallback", zap.Error(err))
		return g.documentFallback(docs, query), err.Error()
	}

	return text, ""
}

// documentFallback renders the retrieved chunks as a structured summary when
// the completion service is unavailable.
func (g *Generator) documentFallback(docs []domain.RetrievedResult, query string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## 📚 Answer Based on Document Content: %s\n\n", query)
	fmt.Fprintf(&sb, "### 📄 Information Retrieved\nI found **%d** relevant sections from the uploaded document that help answer your question.\n\n", len(docs))
	sb.WriteString("### 📝 Key Information from the Document\n")

	for i, doc := range docs {
		if i >= maxFallbackSections {
			break
		}
		content := strings.TrimSpace(strings.ReplaceAll(doc.Content, "\n", " "))
		if len(content) > fallbackSectionLength {
			content = content[:fallbackSectionLength] + "..."
		}
		fmt.Fprintf(&sb, "\n**Section %d:**\n%s\n", i+1, content)
	}

	sb.WriteString("\n### 💡 Summary\n")
	sb.WriteString("Based on the document content, this information should help answer your question.\n\n")
	sb.WriteString("### ⚠️ Note\n")
	sb.WriteString("This is a fallback response due to API limitations. The AI service will provide more comprehensive analysis when available.")

	return sb.String()
}
