package domain

import "time"

// Document status constants
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusFailed     = "failed"
)

// ChunkMetadata describes where a chunk came from within its document.
// Chunk order is informational only; retrieval is similarity-ranked.
type ChunkMetadata struct {
	ChunkID   int    `json:"chunk_id"`
	Source    string `json:"source"`
	ChunkSize int    `json:"chunk_size"`
}

// DocumentChunk is one segment of an uploaded document, ready for embedding.
type DocumentChunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Source   string        `json:"source"`
}

// RetrievedResult is a chunk returned by a similarity search, with a cosine
// similarity score (higher = more similar). Produced fresh per search call.
type RetrievedResult struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Source   string        `json:"source"`
	Score    float64       `json:"score"`
}

// CollectionInfo reports the state of the backing vector collection.
type CollectionInfo struct {
	Name       string `json:"name"`
	PointCount int64  `json:"point_count"`
	Status     string `json:"status"`
}

// DocumentInfo is the basic metadata extractable from an uploaded PDF.
type DocumentInfo struct {
	Pages   int    `json:"num_pages"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	ChunksProcessed int           `json:"chunks_processed"`
	IDsStored       []string      `json:"ids_stored"`
	Source          string        `json:"source_name"`
	Info            *DocumentInfo `json:"document_info,omitempty"`
}

// Document is the registry record for an uploaded document
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunk_count"`
	Pages      int       `json:"num_pages,omitempty"`
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}
