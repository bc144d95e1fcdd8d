package cache

import (
	"context"
	"fmt"

	"github.com/Yiling-J/theine-go"
	"github.com/cespare/xxhash/v2"

	"scribe/markdown"
)

// DefaultSize is how many rendered posts RenderCache keeps.
const DefaultSize = 500

// RenderCache memoizes Markdown renderings keyed by their source. Posts are
// immutable, so entries never go stale.
type RenderCache struct {
	docs *theine.LoadingCache[string, markdown.Document]
}

func NewRenderCache(r *markdown.Renderer, size int64) (*RenderCache, error) {
	docs, err := theine.NewBuilder[string, markdown.Document](size).BuildWithLoader(func(ctx context.Context, src string) (theine.Loaded[markdown.Document], error) {
		doc, err := r.Render([]byte(src))
		if err != nil {
			return theine.Loaded[markdown.Document]{}, err
		}
		return theine.Loaded[markdown.Document]{Value: doc, Cost: 1, TTL: 0}, nil
	})
	if err != nil {
		return nil, err
	}
	return &RenderCache{docs: docs}, nil
}

// Render returns the cached rendering of src. Callers must not modify the
// returned document.
func (c *RenderCache) Render(src []byte) (markdown.Document, error) {
	return c.docs.Get(context.Background(), string(src))
}

// ETag derives an HTTP entity tag from a post's content.
func ETag(content string) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64String(content))
}
