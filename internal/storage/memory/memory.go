package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ButyrinIA/innerpeace/internal/models"
	"github.com/ButyrinIA/innerpeace/internal/storage"
)

var (
	ErrForeignKey   = errors.New(`insert or update on table "suggestions" violates foreign key constraint "suggestions_post_id_fkey"`)
	ErrValueTooLong = errors.New("value too long for type character varying(100)")
)

// maxAuthorLen - длина столбца author VARCHAR(100) в символах.
const maxAuthorLen = 100

// MemoryStorage повторяет правила реляционной схемы: внешний ключ на пост и каскадное удаление.
type MemoryStorage struct {
	posts       map[int64]models.Post
	suggestions map[int64][]models.Suggestion
	postSeq     int64
	suggSeq     int64
	now         func() time.Time
	mu          sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		posts:       make(map[int64]models.Post),
		suggestions: make(map[int64][]models.Suggestion),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStorage) Init(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) CreatePost(ctx context.Context, post *models.Post) error {
	if utf8.RuneCountInString(post.Author) > maxAuthorLen {
		return ErrValueTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.postSeq++
	post.ID = s.postSeq
	post.Timestamp = s.now()
	post.Suggestions = nil
	s.posts[post.ID] = *post
	return nil
}

func (s *MemoryStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}

	// Новые посты первыми
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Timestamp.Equal(posts[j].Timestamp) {
			return posts[i].Timestamp.After(posts[j].Timestamp)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (s *MemoryStorage) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return storage.ErrPostNotFound
	}
	delete(s.posts, id)
	delete(s.suggestions, id)
	return nil
}

func (s *MemoryStorage) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if utf8.RuneCountInString(suggestion.Author) > maxAuthorLen {
		return ErrValueTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[suggestion.PostID]; !exists {
		return ErrForeignKey
	}

	s.suggSeq++
	suggestion.ID = s.suggSeq
	suggestion.Timestamp = s.now()
	s.suggestions[suggestion.PostID] = append(s.suggestions[suggestion.PostID], *suggestion)
	return nil
}

func (s *MemoryStorage) ListSuggestions(ctx context.Context, postIDs []int64) (map[int64][]models.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64][]models.Suggestion, len(postIDs))
	for _, id := range postIDs {
		stored, exists := s.suggestions[id]
		if !exists {
			continue
		}
		list := make([]models.Suggestion, len(stored))
		copy(list, stored)
		// Старые предложения первыми
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Timestamp.Equal(list[j].Timestamp) {
				return list[i].Timestamp.Before(list[j].Timestamp)
			}
			return list[i].ID < list[j].ID
		})
		result[id] = list
	}
	return result, nil
}

// Close очищает хранилище.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make(map[int64]models.Post)
	s.suggestions = make(map[int64][]models.Suggestion)
	return nil
}
