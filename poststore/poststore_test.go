package poststore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scribe/kv"
	"scribe/models"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.Entry{})
	return db
}

func setupTestStore() (*Store, kv.Store) {
	backend := kv.NewGormStore(setupTestDB())
	n := 0
	s := New(backend,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return s, backend
}

func TestLoadPosts_Empty(t *testing.T) {
	s, _ := setupTestStore()

	posts := s.LoadPosts(context.Background())

	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestLoadPosts_Corrupt(t *testing.T) {
	s, backend := setupTestStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, PostsKey, "{not json"))

	assert.Empty(t, s.LoadPosts(ctx))
}

func TestLoadPosts_Null(t *testing.T) {
	s, backend := setupTestStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, PostsKey, "null"))

	assert.NotNil(t, s.LoadPosts(ctx))
}

func TestSavePosts_RoundTrip(t *testing.T) {
	s, _ := setupTestStore()
	ctx := context.Background()
	posts := []models.Post{
		{ID: "b", Title: "Second", Author: "Ann", Content: "x", Date: fixedNow, Tags: []string{"go"}},
		{ID: "a", Title: "First", Author: "Ann", Content: "y", Date: fixedNow.Add(-time.Hour)},
	}

	require.NoError(t, s.SavePosts(ctx, posts))

	assert.Equal(t, posts, s.LoadPosts(ctx))
}

func TestPublish_AnonymousAndPrepend(t *testing.T) {
	s, _ := setupTestStore()
	ctx := context.Background()
	existing := []models.Post{{ID: "old", Title: "Old", Author: "Bo", Content: "old", Date: fixedNow.Add(-time.Hour)}}
	require.NoError(t, s.SavePosts(ctx, existing))

	post, err := s.Publish(ctx, models.Draft{Title: "Hello", Author: "", Content: "World"})
	require.NoError(t, err)

	assert.Equal(t, "Anonymous", post.Author)
	assert.Equal(t, "id-1", post.ID)
	assert.Equal(t, fixedNow, post.Date)
	assert.Equal(t, 1, post.ReadTime)

	posts := s.LoadPosts(ctx)
	require.Len(t, posts, 2)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.Equal(t, "old", posts[1].ID)
}

func TestPublish_TrimsAndParsesTags(t *testing.T) {
	s, _ := setupTestStore()

	post, err := s.Publish(context.Background(), models.Draft{
		Title:    "  Hello ",
		Author:   " Ann ",
		Content:  " World ",
		Category: " notes ",
		Tags:     "go, web, go",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "Ann", post.Author)
	assert.Equal(t, "World", post.Content)
	assert.Equal(t, "notes", post.Category)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
}

func TestPublish_UniqueIDs(t *testing.T) {
	s := New(kv.NewMemoryStore())
	ctx := context.Background()

	a, err := s.Publish(ctx, models.Draft{Title: "A", Content: "a"})
	require.NoError(t, err)
	b, err := s.Publish(ctx, models.Draft{Title: "B", Content: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestPublish_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.Draft
		field string
	}{
		{"empty title", models.Draft{Title: "", Content: "World"}, "title"},
		{"blank title", models.Draft{Title: "   ", Content: "World"}, "title"},
		{"empty content", models.Draft{Title: "Hello", Content: ""}, "content"},
		{"both empty", models.Draft{}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestStore()
			ctx := context.Background()
			existing := []models.Post{{ID: "old", Title: "Old", Author: "Bo", Content: "old", Date: fixedNow}}
			require.NoError(t, s.SavePosts(ctx, existing))

			_, err := s.Publish(ctx, tt.draft)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, existing, s.LoadPosts(ctx))
		})
	}
}

func TestFindPost(t *testing.T) {
	s, _ := setupTestStore()
	ctx := context.Background()
	post, err := s.Publish(ctx, models.Draft{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	found, err := s.FindPost(ctx, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, post, found)

	_, err = s.FindPost(ctx, "missing")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.ID)
}

func TestDraft_RoundTrip(t *testing.T) {
	s, _ := setupTestStore()
	ctx := context.Background()
	d := models.Draft{Title: "T", Author: "", Content: "# Hi\n\nbody", Tags: "a, b"}

	require.NoError(t, s.SaveDraft(ctx, d))
	loaded, ok := s.LoadDraft(ctx)
	assert.True(t, ok)
	assert.Equal(t, d, loaded)

	require.NoError(t, s.ClearDraft(ctx))
	_, ok = s.LoadDraft(ctx)
	assert.False(t, ok)
}

func TestDraft_Corrupt(t *testing.T) {
	s, backend := setupTestStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, DraftKey, "]["))

	_, ok := s.LoadDraft(ctx)
	assert.False(t, ok)
}

type flakyStore struct {
	kv.Store
	getErr error
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Store.Get(ctx, key)
}

func TestPublish_ReadFailureKeepsPosts(t *testing.T) {
	backend := &flakyStore{Store: kv.NewMemoryStore()}
	s := New(backend)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Publish(ctx, models.Draft{Title: title, Content: "body"})
		require.NoError(t, err)
	}

	locked := errors.New("database is locked")
	backend.getErr = locked
	_, err := s.Publish(ctx, models.Draft{Title: "d", Content: "body"})
	assert.ErrorIs(t, err, locked)

	backend.getErr = nil
	posts := s.LoadPosts(ctx)
	require.Len(t, posts, 3)
	assert.Equal(t, "c", posts[0].Title)
}

func TestPublish_CorruptCollectionStartsOver(t *testing.T) {
	s, backend := setupTestStore()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, PostsKey, "{not json"))

	_, err := s.Publish(ctx, models.Draft{Title: "Fresh", Content: "body"})
	require.NoError(t, err)

	assert.Len(t, s.LoadPosts(ctx), 1)
}
