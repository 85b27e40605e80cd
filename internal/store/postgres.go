package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wavelength/matchgen/internal/matching"
	"go.uber.org/zap"
)

const (
	listProfilesSQL = `SELECT id, username FROM profiles ORDER BY id`

	// Reposts carry someone else's content and say nothing about the
	// author's own interests, so they are excluded at the source.
	listPostsSQL = `SELECT content FROM widgets
WHERE user_id = $1 AND type <> 'repost' AND content IS NOT NULL AND content <> ''`

	upsertMatchSQL = `INSERT INTO user_matches
(user1_id, user2_id, shared_interests, match_score, conversation_starter)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user1_id, user2_id) DO UPDATE SET
shared_interests = EXCLUDED.shared_interests,
match_score = EXCLUDED.match_score,
conversation_starter = EXCLUDED.conversation_starter`
)

// Postgres reads profiles and posts and upserts match records. It holds a
// pgx pool constructed once at process start.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect creates the pgx pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected", zap.String("host", config.ConnConfig.Host))

	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

// ListUsers fetches every profile together with its non-repost, non-empty
// posts.
func (p *Postgres) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := p.pool.Query(ctx, listProfilesSQL)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	for _, user := range users {
		posts, err := p.listPosts(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list posts for %s: %w", user.ID, err)
		}
		user.Posts = posts
	}

	return users, nil
}

func (p *Postgres) listPosts(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.pool.Query(ctx, listPostsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]string, 0)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, content)
	}

	return posts, rows.Err()
}

// UpsertMatch writes the record keyed by the ordered identifier pair,
// replacing any prior shared interests, score and starter for that pair.
func (p *Postgres) UpsertMatch(ctx context.Context, record *matching.Record) error {
	if record == nil {
		return errors.New("record is required")
	}

	shared, err := json.Marshal(record.Shared)
	if err != nil {
		return fmt.Errorf("marshal shared interests: %w", err)
	}

	_, err = p.pool.Exec(ctx, upsertMatchSQL,
		record.User1ID,
		record.User2ID,
		shared,
		record.Score,
		record.Starter,
	)
	if err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}
