package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ButyrinIA/innerpeace/internal/models"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author VARCHAR(100) NOT NULL CHECK (length(author) <= 100),
		content TEXT NOT NULL,
		timestamp TIMESTAMP DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
		author VARCHAR(100) NOT NULL CHECK (length(author) <= 100),
		content TEXT NOT NULL,
		is_admin BOOLEAN DEFAULT FALSE,
		timestamp TIMESTAMP DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_suggestions_post_id ON suggestions(post_id)`,
}

type SQLiteStorage struct {
	db *sql.DB
}

// New открывает файл базы данных; внешние ключи включаются на уровне соединения.
func New(path string) (*SQLiteStorage, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// Одно соединение: SQLite сериализует запись, а :memory: живет в рамках соединения.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		if err := rows.Scan(&p.ID, &p.Author, &p.Content, (*timestamp)(&p.Timestamp)); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteStorage) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author, content)
		VALUES (?, ?)
		RETURNING id, timestamp`,
		post.Author, post.Content).Scan(&post.ID, (*timestamp)(&post.Timestamp))
}

func (s *SQLiteStorage) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrPostNotFound
	}
	return nil
}

func (s *SQLiteStorage) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO suggestions (post_id, author, content, is_admin)
		VALUES (?, ?, ?, ?)
		RETURNING id, timestamp`,
		suggestion.PostID, suggestion.Author, suggestion.Content, suggestion.IsAdmin).
		Scan(&suggestion.ID, (*timestamp)(&suggestion.Timestamp))
}

func (s *SQLiteStorage) ListSuggestions(ctx context.Context, postIDs []int64) (map[int64][]models.Suggestion, error) {
	result := make(map[int64][]models.Suggestion, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, author, content, is_admin, timestamp
		FROM suggestions
		WHERE post_id IN (`+placeholders+`)
		ORDER BY timestamp ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.PostID, &sg.Author, &sg.Content, &sg.IsAdmin, (*timestamp)(&sg.Timestamp)); err != nil {
			return nil, err
		}
		result[sg.PostID] = append(result[sg.PostID], sg)
	}
	return result, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// timestamp принимает как time.Time, так и текст: драйвер возвращает строку,
// когда тип столбца не известен (например, в RETURNING).
type timestamp time.Time

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		*t = timestamp(time.Time{})
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}
