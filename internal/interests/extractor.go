package interests

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/wavelength/matchgen/internal/ai"
	"github.com/wavelength/matchgen/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	// DefaultMaxInterests bounds the extracted list when the caller passes a
	// non-positive limit.
	DefaultMaxInterests = 10

	postSeparator       = "\n---\n"
	maxResponseTokens   = 500
	defaultMaxLogLength = 200
)

// Extractor derives a bounded, deduplicated list of canonical interest
// labels from a user's posts by delegating semantic analysis to the
// text-generation provider.
type Extractor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract returns up to maxInterests canonical labels inferred from the
// posts. Empty input returns nil without calling the provider. Provider or
// parse failures are logged and degrade to an empty result; Extract never
// returns an error.
func (e *Extractor) Extract(ctx context.Context, posts []string, maxInterests int) []string {
	if maxInterests <= 0 {
		maxInterests = DefaultMaxInterests
	}

	combined := combinePosts(posts)
	if combined == "" {
		return nil
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{POSTS}}", combined)
	prompt = strings.ReplaceAll(prompt, "{{MAX_INTERESTS}}", strconv.Itoa(maxInterests))

	e.logger.Debug("interest extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, maxResponseTokens)
	if err != nil {
		e.logger.Warn("interest extraction failed", zap.Error(err))
		return nil
	}

	e.logger.Debug("interest extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	labels, err := parseLabels(raw)
	if err != nil {
		e.logger.Warn("parsing extracted interests failed",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
		return nil
	}

	return dedupeNormalized(labels, maxInterests)
}

func combinePosts(posts []string) string {
	nonEmpty := make([]string, 0, len(posts))
	for _, post := range posts {
		if strings.TrimSpace(post) == "" {
			continue
		}
		nonEmpty = append(nonEmpty, post)
	}

	return strings.Join(nonEmpty, postSeparator)
}

// parseLabels pulls the array literal out of the model's free-text reply.
// When no bracket span is present, the whole trimmed reply is tried as a
// last resort.
func parseLabels(raw string) ([]string, error) {
	candidate, ok := ai.ExtractArray(raw)
	if !ok {
		candidate = strings.TrimSpace(raw)
	}

	var items []any
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item.(string)
		if !ok {
			continue
		}
		labels = append(labels, label)
	}

	return labels, nil
}

func dedupeNormalized(labels []string, maxInterests int) []string {
	normalized := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))

	for _, label := range labels {
		canonical := Normalize(label)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		normalized = append(normalized, canonical)

		if len(normalized) == maxInterests {
			break
		}
	}

	return normalized
}
