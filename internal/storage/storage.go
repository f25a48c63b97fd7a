package storage

import (
	"context"
	"errors"

	"github.com/ButyrinIA/innerpeace/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// Storage - реляционное хранилище постов и предложений.
// CreatePost и CreateSuggestion заполняют ID и Timestamp, назначенные хранилищем.
type Storage interface {
	Init(ctx context.Context) error
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	// ListSuggestions возвращает предложения указанных постов, от старых к новым.
	ListSuggestions(ctx context.Context, postIDs []int64) (map[int64][]models.Suggestion, error)
	Close() error
}
