package matching

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/wavelength/matchgen/internal/ai"
	"github.com/wavelength/matchgen/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_match.md
var matchPromptTemplate string

const (
	matchResponseTokens = 800
	defaultMaxLogLength = 200
)

// Matcher detects shared concepts between two users' canonical interest
// lists by delegating the comparison to the text-generation provider.
type Matcher struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewMatcher(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Match returns the shared concepts between the two interest lists. Either
// list being empty short-circuits to an empty result without a provider
// call. Provider and parse failures degrade to an empty result; Match never
// returns an error.
func (m *Matcher) Match(ctx context.Context, interestsA, interestsB []string) SharedInterests {
	if len(interestsA) == 0 || len(interestsB) == 0 {
		return SharedInterests{}
	}

	prompt, err := buildMatchPrompt(interestsA, interestsB)
	if err != nil {
		m.logger.Warn("building match prompt failed", zap.Error(err))
		return SharedInterests{}
	}

	m.logger.Debug("pairwise match request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt, matchResponseTokens)
	if err != nil {
		m.logger.Warn("pairwise match failed", zap.Error(err))
		return SharedInterests{}
	}

	m.logger.Debug("pairwise match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	candidate, ok := ai.ExtractObject(raw)
	if !ok {
		candidate = strings.TrimSpace(raw)
	}

	shared, err := parseSharedInterests(candidate)
	if err != nil {
		m.logger.Warn("parsing shared interests failed",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
		)
		return SharedInterests{}
	}

	return shared
}

func buildMatchPrompt(interestsA, interestsB []string) (string, error) {
	listA, err := json.MarshalIndent(interestsA, "", "  ")
	if err != nil {
		return "", err
	}

	listB, err := json.MarshalIndent(interestsB, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := strings.ReplaceAll(matchPromptTemplate, "{{USER1_INTERESTS}}", string(listA))
	prompt = strings.ReplaceAll(prompt, "{{USER2_INTERESTS}}", string(listB))
	return prompt, nil
}
