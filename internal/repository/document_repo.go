package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anupamsr/skydoc/internal/domain"
)

// DocumentRepository handles the upload registry
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create registers a new upload
func (r *DocumentRepository) Create(doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusPending
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO documents (id, filename, file_type, file_size, status, chunk_count,
			pages, title, author, subject, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.FileType, doc.FileSize, doc.Status, doc.ChunkCount,
		doc.Pages, doc.Title, doc.Author, doc.Subject, doc.Error, doc.CreatedAt, doc.UpdatedAt)

	return err
}

// Get retrieves a document by ID
func (r *DocumentRepository) Get(id string) (*domain.Document, error) {
	doc := &domain.Document{}

	err := r.db.QueryRow(`
		SELECT id, filename, file_type, file_size, status, chunk_count,
			pages, title, author, subject, error, created_at, updated_at
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize, &doc.Status,
		&doc.ChunkCount, &doc.Pages, &doc.Title, &doc.Author, &doc.Subject,
		&doc.Error, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// List retrieves all documents, newest first
func (r *DocumentRepository) List() ([]*domain.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, filename, file_type, file_size, status, chunk_count,
			pages, title, author, subject, error, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize,
			&doc.Status, &doc.ChunkCount, &doc.Pages, &doc.Title, &doc.Author,
			&doc.Subject, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Update persists status, chunk count and extracted metadata
func (r *DocumentRepository) Update(doc *domain.Document) error {
	doc.UpdatedAt = time.Now()

	result, err := r.db.Exec(`
		UPDATE documents SET status = ?, chunk_count = ?, pages = ?,
			title = ?, author = ?, subject = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, doc.Status, doc.ChunkCount, doc.Pages, doc.Title, doc.Author,
		doc.Subject, doc.Error, doc.UpdatedAt, doc.ID)

	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("document not found: %s", doc.ID)
	}

	return nil
}

// Delete removes a document record
func (r *DocumentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("document not found: %s", id)
	}

	return nil
}
