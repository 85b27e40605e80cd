package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SharedInterest is one overlapping or complementary concept detected
// between two users, with a human-readable explanation addressed to both.
type SharedInterest struct {
	Concept     string
	Explanation string
}

// SharedInterests is the set of concepts two users have in common. Entries
// keep the order they appeared in the provider's reply: downstream
// consumers treat the first entry as the top match, and no other ranking is
// implied. The zero value is the valid "no meaningful match" state.
type SharedInterests struct {
	entries []SharedInterest
}

// NewSharedInterests builds a SharedInterests value from explicit entries.
// Used by callers that already hold structured data, primarily tests and
// fakes.
func NewSharedInterests(entries ...SharedInterest) SharedInterests {
	return SharedInterests{entries: entries}
}

func (s SharedInterests) Len() int { return len(s.entries) }

func (s SharedInterests) IsEmpty() bool { return len(s.entries) == 0 }

// Entries returns a copy of the ordered concept list.
func (s SharedInterests) Entries() []SharedInterest {
	out := make([]SharedInterest, len(s.entries))
	copy(out, s.entries)
	return out
}

// Top returns the first entry of the provider's reply, when present.
func (s SharedInterests) Top() (SharedInterest, bool) {
	if len(s.entries) == 0 {
		return SharedInterest{}, false
	}
	return s.entries[0], true
}

// Concepts returns the ordered concept names, mainly for logging.
func (s SharedInterests) Concepts() []string {
	concepts := make([]string, len(s.entries))
	for i, entry := range s.entries {
		concepts[i] = entry.Concept
	}
	return concepts
}

// MarshalJSON renders the entries as a JSON object, preserving entry order
// so the stored form round-trips with the provider's reply.
func (s SharedInterests) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Concept)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(entry.Explanation)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parseSharedInterests decodes a JSON object while keeping its key order.
// encoding/json maps would scramble the order, so the object is walked
// token by token instead.
func parseSharedInterests(raw string) (SharedInterests, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))

	token, err := decoder.Token()
	if err != nil {
		return SharedInterests{}, fmt.Errorf("decode shared interests: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return SharedInterests{}, fmt.Errorf("expected a JSON object, got %v", token)
	}

	var shared SharedInterests
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return SharedInterests{}, fmt.Errorf("decode concept name: %w", err)
		}
		concept, ok := keyToken.(string)
		if !ok {
			return SharedInterests{}, fmt.Errorf("expected a string key, got %v", keyToken)
		}

		var value any
		if err := decoder.Decode(&value); err != nil {
			return SharedInterests{}, fmt.Errorf("decode explanation for %q: %w", concept, err)
		}

		shared.entries = append(shared.entries, SharedInterest{
			Concept:     concept,
			Explanation: coerceString(value),
		})
	}

	if _, err := decoder.Token(); err != nil {
		return SharedInterests{}, fmt.Errorf("decode shared interests: %w", err)
	}

	return shared, nil
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
