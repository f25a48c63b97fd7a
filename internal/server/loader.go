package server

import (
	"context"
	"time"

	"github.com/ButyrinIA/innerpeace/internal/models"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	"github.com/graph-gophers/dataloader/v7"
)

const suggestionBatchSize = 100

type suggestionLoader = dataloader.Loader[int64, []models.Suggestion]

// newSuggestionLoader собирает запросы предложений по отдельным постам в пакетные запросы к хранилищу.
// Загрузчик создается на каждый запрос, поэтому его кэш не переживает запрос.
func newSuggestionLoader(store storage.Storage) *suggestionLoader {
	batch := func(ctx context.Context, postIDs []int64) []*dataloader.Result[[]models.Suggestion] {
		results := make([]*dataloader.Result[[]models.Suggestion], len(postIDs))

		byPost, err := store.ListSuggestions(ctx, postIDs)
		for i, id := range postIDs {
			if err != nil {
				results[i] = &dataloader.Result[[]models.Suggestion]{Error: err}
				continue
			}
			list := byPost[id]
			if list == nil {
				list = []models.Suggestion{}
			}
			results[i] = &dataloader.Result[[]models.Suggestion]{Data: list}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batch,
		dataloader.WithBatchCapacity[int64, []models.Suggestion](suggestionBatchSize),
		dataloader.WithWait[int64, []models.Suggestion](2*time.Millisecond),
	)
}

// attachSuggestions заполняет Suggestions каждого поста, сохраняя порядок постов.
func attachSuggestions(ctx context.Context, loader *suggestionLoader, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	suggestions, errs := loader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for i := range posts {
		posts[i].Suggestions = suggestions[i]
	}
	return nil
}
