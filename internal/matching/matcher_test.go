package matching

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

func TestMatchShortCircuitsOnEmptyLists(t *testing.T) {
	stub := &stubGenerator{response: `{"unused": "unused"}`}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	cases := [][2][]string{
		{nil, {"jazz"}},
		{{"jazz"}, nil},
		{{}, {}},
	}

	for _, tc := range cases {
		if shared := matcher.Match(context.Background(), tc[0], tc[1]); !shared.IsEmpty() {
			t.Fatalf("expected empty result for %v vs %v", tc[0], tc[1])
		}
	}

	if stub.calls != 0 {
		t.Fatalf("expected zero generator calls, got %d", stub.calls)
	}
}

func TestMatchParsesFencedObject(t *testing.T) {
	stub := &stubGenerator{response: "Here is what I found:\n```json\n{\"creative expression\": \"You both create.\", \"running & cardio\": \"You both run.\"}\n```"}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	shared := matcher.Match(context.Background(), []string{"photography"}, []string{"painting"})
	if shared.Len() != 2 {
		t.Fatalf("expected 2 shared concepts, got %d", shared.Len())
	}

	top, _ := shared.Top()
	if top.Concept != "creative expression" {
		t.Fatalf("expected response order to be preserved, got top %q", top.Concept)
	}
}

func TestMatchSendsBothInterestLists(t *testing.T) {
	stub := &stubGenerator{response: `{}`}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	matcher.Match(context.Background(), []string{"street photography"}, []string{"vinyl collecting"})

	if stub.calls != 1 {
		t.Fatalf("expected one generator call, got %d", stub.calls)
	}
	if !strings.Contains(stub.lastPrompt, "street photography") || !strings.Contains(stub.lastPrompt, "vinyl collecting") {
		t.Fatalf("expected both interest lists in prompt, got: %s", stub.lastPrompt)
	}
}

func TestMatchDegradesOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	if shared := matcher.Match(context.Background(), []string{"a"}, []string{"b"}); !shared.IsEmpty() {
		t.Fatalf("expected empty result on generator error")
	}
}

func TestMatchDegradesOnUnparseableResponse(t *testing.T) {
	stub := &stubGenerator{response: "these users have nothing in common, sorry"}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	if shared := matcher.Match(context.Background(), []string{"a"}, []string{"b"}); !shared.IsEmpty() {
		t.Fatalf("expected empty result on unparseable response")
	}
}

func TestMatchEmptyObjectIsValid(t *testing.T) {
	stub := &stubGenerator{response: `{}`}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	shared := matcher.Match(context.Background(), []string{"a"}, []string{"b"})
	if !shared.IsEmpty() {
		t.Fatalf("expected empty shared interests for empty object reply")
	}
}
