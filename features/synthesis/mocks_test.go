package synthesis

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"studybuddy/internal/cache"
	"studybuddy/internal/llm"
	"studybuddy/internal/pdf"
)

// scriptedGenerator is a deterministic llm.Generator double. respond receives
// the 1-based call number and the messages of that call. The double tracks
// total calls, the high-water mark of simultaneous in-flight calls, and every
// system prompt it saw.
type scriptedGenerator struct {
	mu          sync.Mutex
	calls       int
	sysPrompts  []string
	userPrompts []string

	inflight    int32
	maxInflight int32

	jitter  time.Duration
	respond func(call int, msgs []llm.Message) (string, error)
}

func (f *scriptedGenerator) Complete(ctx context.Context, msgs []llm.Message, maxTokens int, temperature float32) (string, error) {
	cur := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInflight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxInflight, max, cur) {
			break
		}
	}

	if f.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(f.jitter))))
	}

	f.mu.Lock()
	f.calls++
	call := f.calls
	f.sysPrompts = append(f.sysPrompts, systemOf(msgs))
	f.userPrompts = append(f.userPrompts, userOf(msgs))
	f.mu.Unlock()

	return f.respond(call, msgs)
}

func (f *scriptedGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *scriptedGenerator) sawSystemPrompt(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.sysPrompts {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func (f *scriptedGenerator) sawUserPrompt(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.userPrompts {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func systemOf(msgs []llm.Message) string {
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			return m.Content
		}
	}
	return ""
}

func userOf(msgs []llm.Message) string {
	for _, m := range msgs {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}

const validCardsJSON = `{"cards":[` +
	`{"type":"definition","front":"What is latency?","back":"Delay before transfer begins.","source":"Page 3"},` +
	`{"front":"TCP handshake?","back":"SYN, SYN-ACK, ACK","source":"Page 7"}]}`

const validQuizJSON = `{"questions":[` +
	`{"question":"Which layer handles routing?","choices":["Physical","Data Link","Network","Transport"],` +
	`"answer_index":2,"explanation":"IP routing occurs at layer 3.","source":"Page 8"}]}`

const validOutlineJSON = `{"sections":[{"title":"Overview"},{"title":"Addressing"},{"title":"Routing"},` +
	`{"title":"Transport"},{"title":"Congestion Control"},{"title":"Reliability"},{"title":"Security"},` +
	`{"title":"Applications"}]}`

// studyRespond answers every pipeline prompt deterministically.
func studyRespond(call int, msgs []llm.Message) (string, error) {
	sys := systemOf(msgs)
	switch {
	case strings.Contains(sys, "exam-focused bullets"):
		return "- point one\n- point two\n- point three", nil
	case strings.Contains(sys, "section outline"):
		return validOutlineJSON, nil
	case strings.Contains(sys, "Rewrite this excerpt"):
		return "## Overview\n\n**Latency** is the delay before transfer begins.", nil
	case strings.Contains(sys, "Merge the following"):
		return "# Study Guide\n\n## Overview\n\nThe merged document body.", nil
	case strings.Contains(sys, `"cards"`):
		return validCardsJSON, nil
	case strings.Contains(sys, `"questions"`):
		return validQuizJSON, nil
	}
	return "", &GenerationError{Stage: "test", Err: llm.ErrUpstream}
}

type fakeExtractor struct {
	pages []pdf.Page
	err   error
}

func (f *fakeExtractor) ExtractPages(raw []byte) ([]pdf.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

// textPages builds n pages of non-empty text numbered from 1.
func textPages(n int) []pdf.Page {
	pages := make([]pdf.Page, n)
	for i := range pages {
		pages[i] = pdf.Page{Index: i + 1, Text: "content of page"}
	}
	return pages
}

// brokenStore fails every write and misses every read.
type brokenStore struct{}

func (brokenStore) GetBullets(ctx context.Context, id string) (*cache.BulletRecord, error) {
	return nil, cache.ErrNotFound
}

func (brokenStore) PutBullets(ctx context.Context, id string, rec *cache.BulletRecord) error {
	return cache.ErrIO
}

func (brokenStore) GetDocument(ctx context.Context, id string) (*cache.DocumentRecord, error) {
	return nil, cache.ErrNotFound
}

func (brokenStore) PutDocument(ctx context.Context, id string, rec *cache.DocumentRecord) error {
	return cache.ErrIO
}

func (brokenStore) GetQuiz(ctx context.Context, id string) (*cache.QuizRecord, error) {
	return nil, cache.ErrNotFound
}

func (brokenStore) PutQuiz(ctx context.Context, id string, rec *cache.QuizRecord) error {
	return cache.ErrIO
}
