package interests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string, _ int32) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractShortCircuitsOnEmptyInput(t *testing.T) {
	stub := &stubGenerator{response: `["should not be used"]`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	cases := [][]string{
		nil,
		{},
		{""},
		{"", "   ", "\n"},
	}

	for _, posts := range cases {
		if got := extractor.Extract(context.Background(), posts, 10); len(got) != 0 {
			t.Fatalf("expected empty result for posts %q, got %v", posts, got)
		}
	}

	if stub.calls != 0 {
		t.Fatalf("expected zero generator calls, got %d", stub.calls)
	}
}

func TestExtractNormalizesAndDeduplicates(t *testing.T) {
	// "makeup" and "cosmetics" collapse to the same canonical label.
	stub := &stubGenerator{response: `["Makeup", "cosmetics", "running", "jogging", "vinyl collecting"]`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	got := extractor.Extract(context.Background(), []string{"post about beauty and cardio"}, 10)

	expected := []string{"beauty & self-expression", "running & cardio", "vinyl collecting"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}

	if stub.calls != 1 {
		t.Fatalf("expected exactly one generator call, got %d", stub.calls)
	}
}

func TestExtractTruncatesToMaxInterests(t *testing.T) {
	stub := &stubGenerator{response: `["a", "b", "c", "d", "e", "f"]`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	got := extractor.Extract(context.Background(), []string{"post"}, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 interests, got %d: %v", len(got), got)
	}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected first-seen order, got %v", got)
	}
}

func TestExtractParsesFencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "Sure! Here you go:\n```json\n[\"street photography\", \"coffee culture\"]\n```"}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	got := extractor.Extract(context.Background(), []string{"post"}, 10)
	if len(got) != 2 || got[0] != "street photography" || got[1] != "coffee culture" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestExtractDegradesOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	if got := extractor.Extract(context.Background(), []string{"post"}, 10); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestExtractDegradesOnUnparseableResponse(t *testing.T) {
	stub := &stubGenerator{response: "I could not find any interests in these posts."}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	if got := extractor.Extract(context.Background(), []string{"post"}, 10); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestExtractJoinsPostsWithSeparator(t *testing.T) {
	stub := &stubGenerator{response: `["jazz"]`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	extractor.Extract(context.Background(), []string{"first post", "", "second post"}, 10)

	if !strings.Contains(stub.lastPrompt, "first post\n---\nsecond post") {
		t.Fatalf("expected non-empty posts joined with separator, got prompt: %s", stub.lastPrompt)
	}
}
