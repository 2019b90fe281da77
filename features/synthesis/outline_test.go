package synthesis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/llm"
)

func outlineService(respond func(call int, msgs []llm.Message) (string, error)) (*Service, *scriptedGenerator) {
	gen := &scriptedGenerator{respond: respond}
	return NewService(gen, nil, nil, Config{Concurrency: 4, MaxPages: 30}), gen
}

func TestInferOutline_ParsesTitles(t *testing.T) {
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return validOutlineJSON, nil
	})

	titles := svc.inferOutline(context.Background(), "Page 1:\n- bullet")
	require.Len(t, titles, 8)
	assert.Equal(t, "Overview", titles[0])
	assert.Equal(t, "Applications", titles[7])
}

func TestInferOutline_StripsCodeFences(t *testing.T) {
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return "```json\n" + validOutlineJSON + "\n```", nil
	})

	titles := svc.inferOutline(context.Background(), "digest")
	assert.Len(t, titles, 8)
}

func TestInferOutline_FiltersShortTitlesAndTruncates(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"sections":[{"title":"a"},{"title":" ok "},`)
	for i := 1; i <= 16; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"title":"Section %d"}`, i)
	}
	b.WriteString(`]}`)
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return b.String(), nil
	})

	titles := svc.inferOutline(context.Background(), "digest")
	require.Len(t, titles, maxOutlineSections)
	assert.Equal(t, "Section 1", titles[0])
	for _, title := range titles {
		assert.GreaterOrEqual(t, len(title), minOutlineTitleLen)
	}
}

func TestInferOutline_FallsBackOnGeneratorError(t *testing.T) {
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return "", llm.ErrUpstream
	})

	titles := svc.inferOutline(context.Background(), "digest")
	assert.Equal(t, fallbackOutline, titles)
}

func TestInferOutline_FallsBackOnMalformedJSON(t *testing.T) {
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return "Sure! Here is an outline:\n1. Overview\n2. Details", nil
	})

	titles := svc.inferOutline(context.Background(), "digest")
	assert.Equal(t, fallbackOutline, titles)
}

func TestInferOutline_FallsBackWhenNoUsableTitles(t *testing.T) {
	svc, _ := outlineService(func(call int, msgs []llm.Message) (string, error) {
		return `{"sections":[{"title":"a"},{"title":""}]}`, nil
	})

	titles := svc.inferOutline(context.Background(), "digest")
	assert.Equal(t, fallbackOutline, titles)
}
