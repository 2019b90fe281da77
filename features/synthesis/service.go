package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"studybuddy/internal/cache"
	"studybuddy/internal/llm"
	"studybuddy/internal/pdf"
)

// PageExtractor decodes document bytes into ordered per-page text.
type PageExtractor interface {
	ExtractPages(raw []byte) ([]pdf.Page, error)
}

// Config holds the pipeline knobs. Zero values fall back to safe minimums in
// NewService.
type Config struct {
	// Concurrency bounds simultaneous in-flight page summarization calls.
	Concurrency int
	// MaxPages caps how many pages are summarized; later pages are ignored.
	MaxPages int
}

type Service struct {
	gen       llm.Generator
	extractor PageExtractor
	cache     cache.Store
	validate  *validator.Validate
	cfg       Config
}

func NewService(gen llm.Generator, extractor PageExtractor, store cache.Store, cfg Config) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	return &Service{
		gen:       gen,
		extractor: extractor,
		cache:     store,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Synthesize runs the document pipeline: bullet digest, then the requested
// summary and flashcards concurrently. Identical bytes short-circuit to the
// cached artifact.
func (s *Service) Synthesize(ctx context.Context, req Request) (*Artifact, error) {
	if len(req.Raw) == 0 {
		return nil, ErrEmptyDocument
	}
	if !req.WantSummary && !req.WantCards {
		return nil, ErrNothingRequested
	}
	title := req.Title
	if title == "" {
		title = "Untitled"
	}

	id := ContentID(req.Raw)

	if rec, err := s.cache.GetDocument(ctx, id); err == nil {
		slog.InfoContext(ctx, "document cache hit", "content_id", id)
		art := &Artifact{ContentID: id, Title: rec.Title}
		if req.WantSummary {
			art.Summary = rec.Summary
		}
		if req.WantCards {
			art.CardsJSON = rec.CardsJSON
		}
		return art, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.WarnContext(ctx, "document cache read failed, regenerating", "content_id", id, "error", err)
	}

	joined, _, err := s.buildBullets(ctx, id, req.Raw)
	if err != nil {
		return nil, err
	}

	var (
		summary   string
		cardsJSON string
	)
	var g errgroup.Group
	if req.WantSummary {
		g.Go(func() error {
			doc, err := s.synthesizeDocument(ctx, joined, title, clampWordTarget(req.WordTarget))
			if err != nil {
				return err
			}
			summary = doc
			return nil
		})
	}
	if req.WantCards {
		g.Go(func() error {
			set, err := s.generateCards(ctx, joined)
			if err != nil {
				return err
			}
			data, err := json.Marshal(set)
			if err != nil {
				return err
			}
			cardsJSON = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	art := &Artifact{ContentID: id, Title: title, Summary: summary, CardsJSON: cardsJSON}
	rec := &cache.DocumentRecord{ID: id, Title: title, Summary: summary, CardsJSON: cardsJSON}
	if err := s.cache.PutDocument(ctx, id, rec); err != nil {
		// The in-memory result stands even when the cache write fails.
		slog.WarnContext(ctx, "document cache write failed", "content_id", id, "error", err)
	}
	slog.InfoContext(ctx, "document synthesized", "content_id", id, "summary_len", len(summary), "cards_len", len(cardsJSON))
	return art, nil
}

// Quiz builds a multiple-choice quiz from the bullet digest. The question
// count is clamped to [10,40].
func (s *Service) Quiz(ctx context.Context, req Request) (*Artifact, error) {
	if len(req.Raw) == 0 {
		return nil, ErrEmptyDocument
	}
	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	n := clampQuestions(req.NumQuestions)

	id := ContentID(req.Raw)

	if rec, err := s.cache.GetQuiz(ctx, id); err == nil {
		slog.InfoContext(ctx, "quiz cache hit", "content_id", id)
		return &Artifact{ContentID: id, Title: rec.Title, QuizJSON: rec.QuizJSON, NumQuestions: rec.NumQuestions}, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.WarnContext(ctx, "quiz cache read failed, regenerating", "content_id", id, "error", err)
	}

	joined, _, err := s.buildBullets(ctx, id, req.Raw)
	if err != nil {
		return nil, err
	}

	set, err := s.generateQuiz(ctx, joined, n)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}

	art := &Artifact{ContentID: id, Title: title, QuizJSON: string(data), NumQuestions: len(set.Questions)}
	rec := &cache.QuizRecord{ID: id, Title: title, NumQuestions: art.NumQuestions, QuizJSON: art.QuizJSON}
	if err := s.cache.PutQuiz(ctx, id, rec); err != nil {
		slog.WarnContext(ctx, "quiz cache write failed", "content_id", id, "error", err)
	}
	slog.InfoContext(ctx, "quiz generated", "content_id", id, "num_questions", art.NumQuestions)
	return art, nil
}

// buildBullets returns the cached bullet digest for id, or extracts pages and
// summarizes them. Extraction problems fail fast, before any generation call.
func (s *Service) buildBullets(ctx context.Context, id string, raw []byte) (string, []string, error) {
	if rec, err := s.cache.GetBullets(ctx, id); err == nil {
		slog.InfoContext(ctx, "bullet cache hit", "content_id", id)
		return rec.Joined, rec.Bullets, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.WarnContext(ctx, "bullet cache read failed, regenerating", "content_id", id, "error", err)
	}

	pages, err := s.extractor.ExtractPages(raw)
	if err != nil {
		return "", nil, err
	}
	if !pdf.HasText(pages) {
		return "", nil, ErrNoExtractableText
	}

	joined, bullets, err := s.summarizePages(ctx, pages)
	if err != nil {
		return "", nil, err
	}

	rec := &cache.BulletRecord{Joined: joined, Bullets: bullets}
	if err := s.cache.PutBullets(ctx, id, rec); err != nil {
		slog.WarnContext(ctx, "bullet cache write failed", "content_id", id, "error", err)
	}
	return joined, bullets, nil
}

func clampWordTarget(n int) int {
	if n < minWordTarget {
		return minWordTarget
	}
	if n > maxWordTarget {
		return maxWordTarget
	}
	return n
}

func clampQuestions(n int) int {
	if n < minQuestions {
		return minQuestions
	}
	if n > maxQuestions {
		return maxQuestions
	}
	return n
}
