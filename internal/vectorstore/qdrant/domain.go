package qdrant

import (
	"encoding/json"
	"strings"

	"github.com/anupamsr/skydoc/internal/domain"
)

type envelope[T any] struct {
	Status status `json:"status"`
	Result T      `json:"result"`
}

// Qdrant reports status either as the string "ok" or as {"error": "..."}.
type status struct {
	State string
	Error string
}

func (s *status) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.State = strings.ToLower(v)
		return nil
	}

	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Error != "" {
		s.State = "error"
		s.Error = obj.Error
	}
	return nil
}

type pointResult struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Payload struct {
		Content  string               `json:"content"`
		Metadata domain.ChunkMetadata `json:"metadata"`
		Source   string               `json:"source"`
	} `json:"payload"`
}

func (p pointResult) toRetrieved() domain.RetrievedResult {
	return domain.RetrievedResult{
		Content:  p.Payload.Content,
		Metadata: p.Payload.Metadata,
		Source:   p.Payload.Source,
		Score:    p.Score,
	}
}

type collectionDetail struct {
	Status      string `json:"status"`
	PointsCount int64  `json:"points_count"`
	Config      struct {
		Params struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		} `json:"params"`
	} `json:"config"`
}
