package ai

import "strings"

// Model replies are free text and may wrap the requested JSON literal in
// commentary or markdown fences. ExtractArray and ExtractObject locate the
// widest plausible literal span: earliest opening bracket, latest closing
// one. Callers attempt a structured parse on the span and fall back to the
// whole trimmed reply when no span is found.

// ExtractArray returns the first-to-last array literal span in raw.
func ExtractArray(raw string) (string, bool) {
	return extractSpan(raw, '[', ']')
}

// ExtractObject returns the first-to-last object literal span in raw.
func ExtractObject(raw string) (string, bool) {
	return extractSpan(raw, '{', '}')
}

func extractSpan(raw string, open, closing byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start == -1 {
		return "", false
	}

	end := strings.LastIndexByte(raw, closing)
	if end <= start {
		return "", false
	}

	return raw[start : end+1], true
}
