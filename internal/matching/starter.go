package matching

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/wavelength/matchgen/internal/ai"
	"github.com/wavelength/matchgen/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_starter.md
var starterPromptTemplate string

const (
	starterResponseTokens = 100

	// genericStarter is used when there is nothing to reference at all.
	genericStarter = "Hey! Looks like we might have some things in common. What are you into lately?"
)

// StarterGenerator produces a short icebreaker for a matched pair,
// referencing their top shared concept. It always returns a non-empty
// string: provider failures fall back to a deterministic template.
type StarterGenerator struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewStarterGenerator(generator ai.Generator, logger *zap.Logger, maxLogLength int) *StarterGenerator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StarterGenerator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Generate returns a conversation starter for the shared interests. The
// first entry is used as the top match, per the provider's reply order.
func (s *StarterGenerator) Generate(ctx context.Context, shared SharedInterests) string {
	top, ok := shared.Top()
	if !ok {
		return genericStarter
	}

	prompt := strings.ReplaceAll(starterPromptTemplate, "{{CONCEPT}}", top.Concept)
	prompt = strings.ReplaceAll(prompt, "{{EXPLANATION}}", top.Explanation)

	s.logger.Debug("starter generation request",
		zap.String("concept", top.Concept),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt, starterResponseTokens)
	if err != nil {
		s.logger.Warn("starter generation failed",
			zap.String("concept", top.Concept),
			zap.Error(err),
		)
		return fallbackStarter(top.Concept)
	}

	s.logger.Debug("starter generation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	starter := strings.Trim(strings.TrimSpace(raw), `"`)
	if starter == "" {
		return fallbackStarter(top.Concept)
	}

	return starter
}

func fallbackStarter(concept string) string {
	return fmt.Sprintf("Hey! I noticed we both seem to be into %s. What got you into it?", concept)
}
