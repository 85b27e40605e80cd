package pipeline

import (
	"context"
	"fmt"

	"github.com/wavelength/matchgen/internal/matching"
	"github.com/wavelength/matchgen/internal/store"
	"go.uber.org/zap"
)

// Store is the persistence surface the pipeline needs: read access to users
// with their posts, idempotent upsert of match records.
type Store interface {
	ListUsers(ctx context.Context) ([]*store.User, error)
	UpsertMatch(ctx context.Context, record *matching.Record) error
}

type interestExtractor interface {
	Extract(ctx context.Context, posts []string, maxInterests int) []string
}

type matrixBuilder interface {
	Build(ctx context.Context, candidates []matching.Candidate) ([]*matching.Record, matching.Stats)
}

// Pipeline runs the match generation sequence: fetch users and posts,
// extract interests per user, enumerate pairs into match records. Persist
// is a separate step so the caller can interpose a confirmation.
type Pipeline struct {
	store        Store
	extractor    interestExtractor
	matrix       matrixBuilder
	maxInterests int
	logger       *zap.Logger
}

func New(st Store, extractor interestExtractor, matrix matrixBuilder, maxInterests int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		store:        st,
		extractor:    extractor,
		matrix:       matrix,
		maxInterests: maxInterests,
		logger:       logger,
	}
}

// Run executes fetch and extraction, then builds the full match matrix.
// Only the initial fetch can fail the run; extraction and matching degrade
// per user and per pair.
func (p *Pipeline) Run(ctx context.Context) ([]*matching.Record, matching.Stats, error) {
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return nil, matching.Stats{}, fmt.Errorf("list users: %w", err)
	}

	p.logger.Info("fetched users", zap.Int("count", len(users)))

	for _, user := range users {
		if len(user.Posts) == 0 {
			p.logger.Info("no posts, skipping extraction", zap.String("username", user.Username))
			continue
		}

		user.Interests = p.extractor.Extract(ctx, user.Posts, p.maxInterests)

		p.logger.Info("extracted interests",
			zap.String("username", user.Username),
			zap.Int("posts", len(user.Posts)),
			zap.Strings("interests", user.Interests),
		)
	}

	candidates := make([]matching.Candidate, 0, len(users))
	for _, user := range users {
		candidates = append(candidates, matching.Candidate{
			ID:        user.ID,
			Username:  user.Username,
			Interests: user.Interests,
		})
	}

	records, stats := p.matrix.Build(ctx, candidates)

	p.logger.Info("pair enumeration finished",
		zap.Int("total_users", stats.TotalUsers),
		zap.Int("total_pairs", stats.TotalPairs),
		zap.Int("matches_found", stats.MatchesFound),
	)

	return records, stats, nil
}

// Persist upserts each record individually. A failed upsert is logged and
// skipped; the remaining records are still written. Returns the number of
// records saved.
func (p *Pipeline) Persist(ctx context.Context, records []*matching.Record) int {
	saved := 0
	for _, record := range records {
		if err := p.store.UpsertMatch(ctx, record); err != nil {
			p.logger.Warn("saving match failed",
				zap.String("user1_id", record.User1ID),
				zap.String("user2_id", record.User2ID),
				zap.Error(err),
			)
			continue
		}
		saved++
	}

	p.logger.Info("saved matches", zap.Int("saved", saved), zap.Int("total", len(records)))

	return saved
}
