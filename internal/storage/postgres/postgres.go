package postgres

import (
	"context"
	"fmt"

	"github.com/ButyrinIA/innerpeace/internal/models"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		author VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id SERIAL PRIMARY KEY,
		post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
		author VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		is_admin BOOLEAN DEFAULT FALSE,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_suggestions_post_id ON suggestions(post_id)`,
}

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string, maxConns int32) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// Init создает таблицы, если их еще нет.
func (s *PostgresStorage) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, author, content, timestamp
		FROM posts
		ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Author, &p.Content, &p.Timestamp); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStorage) CreatePost(ctx context.Context, post *models.Post) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO posts (author, content)
		VALUES ($1, $2)
		RETURNING id, timestamp`,
		post.Author, post.Content).Scan(&post.ID, &post.Timestamp)
}

func (s *PostgresStorage) DeletePost(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrPostNotFound
	}
	return nil
}

func (s *PostgresStorage) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO suggestions (post_id, author, content, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`,
		suggestion.PostID, suggestion.Author, suggestion.Content, suggestion.IsAdmin).
		Scan(&suggestion.ID, &suggestion.Timestamp)
}

func (s *PostgresStorage) ListSuggestions(ctx context.Context, postIDs []int64) (map[int64][]models.Suggestion, error) {
	result := make(map[int64][]models.Suggestion, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, post_id, author, content, is_admin, timestamp
		FROM suggestions
		WHERE post_id = ANY($1)
		ORDER BY timestamp ASC, id ASC`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.PostID, &sg.Author, &sg.Content, &sg.IsAdmin, &sg.Timestamp); err != nil {
			return nil, err
		}
		result[sg.PostID] = append(result[sg.PostID], sg)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

