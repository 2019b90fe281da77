package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"studybuddy/internal/llm"
)

const (
	cardsMaxTokens = 1500
	quizMaxTokens  = 2000

	minQuestions = 10
	maxQuestions = 40
)

type Card struct {
	Type   string `json:"type,omitempty" validate:"omitempty,oneof=definition cloze qa formula"`
	Front  string `json:"front" validate:"required"`
	Back   string `json:"back" validate:"required"`
	Source string `json:"source,omitempty"`
}

type CardSet struct {
	Cards []Card `json:"cards" validate:"required,min=1,dive"`
}

type MCQ struct {
	Question    string   `json:"question" validate:"required"`
	Choices     []string `json:"choices" validate:"required,len=4"`
	AnswerIndex int      `json:"answer_index" validate:"min=0,max=3"`
	Explanation string   `json:"explanation"`
	Source      string   `json:"source,omitempty"`
}

type QuizSet struct {
	Questions []MCQ `json:"questions" validate:"required,min=1,dive"`
}

const cardsSchemaPrompt = `Return only valid JSON with no extra text. ` +
	`Schema: {"cards":[{"type":"definition|cloze|qa|formula","front":"...","back":"...","source":"Page X"}]}`

const cardsRepairPrompt = `Fix to valid JSON {"cards":[{"type","front","back","source"}]} only. No prose.`

const quizSchemaPrompt = `Return only valid JSON with no extra text. ` +
	`Schema: {"questions":[{"question":"...","choices":["A","B","C","D"],` +
	`"answer_index":0,"explanation":"...","source":"Page X"}]}`

const quizRepairPrompt = quizSchemaPrompt + ` Repair strictly to schema (exactly 4 choices each). No prose.`

// generateCards produces a validated flashcard set from the bullet digest,
// with at most one repair round: parse, validate, on failure resubmit the raw
// text with a fix-to-schema instruction, parse and validate once more.
func (s *Service) generateCards(ctx context.Context, joined string) (*CardSet, error) {
	parse := func(raw string) (*CardSet, error) {
		var set CardSet
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &set); err != nil {
			return nil, err
		}
		if err := s.validate.Struct(&set); err != nil {
			return nil, err
		}
		for i := range set.Cards {
			if set.Cards[i].Type == "" {
				set.Cards[i].Type = "qa"
			}
		}
		return &set, nil
	}

	user := fmt.Sprintf("Create 20-30 high-yield flashcards from these bullets:\n%s", truncate(joined, digestPromptChars))
	raw, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: cardsSchemaPrompt},
		{Role: llm.RoleUser, Content: user},
	}, cardsMaxTokens, generationTemperature)
	if err != nil {
		return nil, &GenerationError{Stage: "cards", Err: err}
	}

	set, parseErr := parse(raw)
	if parseErr == nil {
		return set, nil
	}
	slog.WarnContext(ctx, "card set failed validation, attempting repair", "error", parseErr)

	repaired, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: cardsRepairPrompt},
		{Role: llm.RoleUser, Content: raw},
	}, cardsMaxTokens, generationTemperature)
	if err != nil {
		return nil, &GenerationError{Stage: "cards", Err: err}
	}

	set, parseErr = parse(repaired)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaRepairExhausted, parseErr)
	}
	return set, nil
}

// generateQuiz produces a validated MCQ set, with the same single repair
// round as generateCards. Every question must have exactly 4 choices and an
// answer index in 0..3.
func (s *Service) generateQuiz(ctx context.Context, joined string, n int) (*QuizSet, error) {
	parse := func(raw string) (*QuizSet, error) {
		var set QuizSet
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &set); err != nil {
			return nil, err
		}
		if err := s.validate.Struct(&set); err != nil {
			return nil, err
		}
		return &set, nil
	}

	user := fmt.Sprintf("Create %d MCQs from these bullets:\n%s", n, truncate(joined, digestPromptChars))
	raw, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: quizSchemaPrompt},
		{Role: llm.RoleUser, Content: user},
	}, quizMaxTokens, generationTemperature)
	if err != nil {
		return nil, &GenerationError{Stage: "quiz", Err: err}
	}

	set, parseErr := parse(raw)
	if parseErr == nil {
		return set, nil
	}
	slog.WarnContext(ctx, "quiz failed validation, attempting repair", "error", parseErr)

	repaired, err := s.gen.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: quizRepairPrompt},
		{Role: llm.RoleUser, Content: raw},
	}, quizMaxTokens, generationTemperature)
	if err != nil {
		return nil, &GenerationError{Stage: "quiz", Err: err}
	}

	set, parseErr = parse(repaired)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaRepairExhausted, parseErr)
	}
	return set, nil
}
