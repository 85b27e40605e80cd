package ai

import "testing"

func TestExtractArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
		found  bool
	}{
		{
			name:   "bare array",
			input:  `["a", "b"]`,
			expect: `["a", "b"]`,
			found:  true,
		},
		{
			name:   "fenced array",
			input:  "```json\n[\"a\"]\n```",
			expect: `["a"]`,
			found:  true,
		},
		{
			name:   "surrounding commentary",
			input:  `Here are the interests: ["jazz", "running"] Hope that helps!`,
			expect: `["jazz", "running"]`,
			found:  true,
		},
		{
			name:  "no array",
			input: "sorry, I cannot help with that",
			found: false,
		},
		{
			name:  "closing before opening",
			input: "] nothing here [",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractArray(tt.input)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			if ok && got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	t.Parallel()

	got, ok := ExtractObject("```json\n{\"jazz\": \"You both love jazz.\"}\n```")
	if !ok {
		t.Fatalf("expected object span to be found")
	}
	if got != `{"jazz": "You both love jazz."}` {
		t.Fatalf("unexpected span: %q", got)
	}

	if _, ok := ExtractObject("no braces here"); ok {
		t.Fatalf("expected no span in plain text")
	}
}

func TestExtractObjectSpansNestedBraces(t *testing.T) {
	t.Parallel()

	input := `prefix {"a": "x", "b": "y"} suffix }`
	got, ok := ExtractObject(input)
	if !ok {
		t.Fatalf("expected span to be found")
	}
	// Greedy end: the span runs to the last closing brace in the reply.
	if got != `{"a": "x", "b": "y"} suffix }` {
		t.Fatalf("unexpected span: %q", got)
	}
}
