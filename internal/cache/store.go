// Package cache is the content-addressed artifact store. Records are keyed by
// the document content hash and are only ever overwritten by identical
// regeneration, so the store behaves as append-only.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrNotFound = errors.New("cache record not found")
	ErrIO       = errors.New("cache I/O failure")
)

// BulletRecord is the per-page digest produced before any long-form synthesis.
type BulletRecord struct {
	Joined  string   `json:"joined"`
	Bullets []string `json:"bullets"`
}

type DocumentRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	CardsJSON string `json:"cards_json"`
}

type QuizRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
	QuizJSON     string `json:"quiz_json"`
}

type Store interface {
	GetBullets(ctx context.Context, id string) (*BulletRecord, error)
	PutBullets(ctx context.Context, id string, rec *BulletRecord) error
	GetDocument(ctx context.Context, id string) (*DocumentRecord, error)
	PutDocument(ctx context.Context, id string, rec *DocumentRecord) error
	GetQuiz(ctx context.Context, id string) (*QuizRecord, error)
	PutQuiz(ctx context.Context, id string, rec *QuizRecord) error
}

const (
	documentSuffix = ".json"
	bulletsSuffix  = ".bullets.json"
	quizSuffix     = ".quiz.json"
)

// FileStore keeps one JSON file per record under a single directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) GetBullets(ctx context.Context, id string) (*BulletRecord, error) {
	var rec BulletRecord
	if err := s.read(id+bulletsSuffix, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) PutBullets(ctx context.Context, id string, rec *BulletRecord) error {
	return s.write(id+bulletsSuffix, rec)
}

func (s *FileStore) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	var rec DocumentRecord
	if err := s.read(id+documentSuffix, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) PutDocument(ctx context.Context, id string, rec *DocumentRecord) error {
	return s.write(id+documentSuffix, rec)
}

func (s *FileStore) GetQuiz(ctx context.Context, id string) (*QuizRecord, error) {
	var rec QuizRecord
	if err := s.read(id+quizSuffix, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) PutQuiz(ctx context.Context, id string, rec *QuizRecord) error {
	return s.write(id+quizSuffix, rec)
}

func (s *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (s *FileStore) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
