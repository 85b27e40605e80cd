package matching

import (
	"context"

	"go.uber.org/zap"
)

// Candidate is one user entering pair enumeration: an opaque, orderable
// identifier plus the already-extracted canonical interest list.
type Candidate struct {
	ID        string
	Username  string
	Interests []string
}

// Stats summarizes one matrix build.
type Stats struct {
	TotalUsers   int
	TotalPairs   int
	MatchesFound int
}

type pairMatcher interface {
	Match(ctx context.Context, interestsA, interestsB []string) SharedInterests
}

type starterGenerator interface {
	Generate(ctx context.Context, shared SharedInterests) string
}

// Matrix enumerates all unordered user pairs and assembles match records.
// Each pair is evaluated independently; pairs with no shared concepts are
// skipped, not recorded.
type Matrix struct {
	matcher  pairMatcher
	starters starterGenerator
	logger   *zap.Logger
}

func NewMatrix(matcher pairMatcher, starters starterGenerator, logger *zap.Logger) *Matrix {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matrix{
		matcher:  matcher,
		starters: starters,
		logger:   logger,
	}
}

// Build evaluates every unordered pair of candidates exactly once. Users
// without interests are excluded from enumeration entirely: they produce no
// records, zero-score or otherwise.
func (m *Matrix) Build(ctx context.Context, candidates []Candidate) ([]*Record, Stats) {
	stats := Stats{TotalUsers: len(candidates)}

	eligible := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if len(candidate.Interests) == 0 {
			continue
		}
		eligible = append(eligible, candidate)
	}

	m.logger.Info("enumerating user pairs", zap.Int("users_with_interests", len(eligible)))

	records := make([]*Record, 0)
	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			stats.TotalPairs++

			first, second := eligible[i], eligible[j]

			shared := m.matcher.Match(ctx, first.Interests, second.Interests)
			if shared.IsEmpty() {
				continue
			}

			stats.MatchesFound++
			score := Score(shared)
			starter := m.starters.Generate(ctx, shared)

			records = append(records, NewRecord(first.ID, second.ID, shared, score, starter))

			m.logger.Info("match found",
				zap.String("user1", first.Username),
				zap.String("user2", second.Username),
				zap.Float64("score", score),
				zap.Strings("concepts", shared.Concepts()),
			)
		}
	}

	return records, stats
}
