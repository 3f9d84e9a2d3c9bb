package pdf

import (
	"bytes"
	"fmt"

	dpdf "github.com/dslipak/pdf"

	"github.com/anupamsr/skydoc/internal/domain"
)

// ExtractText returns the plain text of a PDF document.
func ExtractText(data []byte) (string, error) {
	reader, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", domain.ErrIngestion, err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extracting pdf text: %v", domain.ErrIngestion, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return "", fmt.Errorf("%w: extracting pdf text: %v", domain.ErrIngestion, err)
	}

	return buf.String(), nil
}

// Info returns basic document metadata. Missing info fields come back as
// "Unknown", matching how the documents are surfaced to the user.
func Info(data []byte) (*domain.DocumentInfo, error) {
	reader, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: reading pdf info: %v", domain.ErrIngestion, err)
	}

	info := reader.Trailer().Key("Info")

	return &domain.DocumentInfo{
		Pages:   reader.NumPage(),
		Title:   stringOr(info.Key("Title"), "Unknown"),
		Author:  stringOr(info.Key("Author"), "Unknown"),
		Subject: stringOr(info.Key("Subject"), "Unknown"),
	}, nil
}

func stringOr(v dpdf.Value, fallback string) string {
	if s := v.Text(); s != "" {
		return s
	}
	return fallback
}
