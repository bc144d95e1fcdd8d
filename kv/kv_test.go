package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scribe/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.Entry{})
	return db
}

func stores() map[string]Store {
	return map[string]Store{
		"gorm":   NewGormStore(setupTestDB()),
		"memory": NewMemoryStore(),
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "blog_posts", "[]"))
			require.NoError(t, s.Set(ctx, "blog_posts", `[{"id":"a"}]`))

			v, err := s.Get(ctx, "blog_posts")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, v)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "blog_draft", "{}"))
			require.NoError(t, s.Delete(ctx, "blog_draft"))
			require.NoError(t, s.Delete(ctx, "blog_draft"))

			_, err := s.Get(ctx, "blog_draft")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "isAdmin", "true")
	s.Clear()

	_, err := s.Get(ctx, "isAdmin")
	assert.ErrorIs(t, err, ErrNotFound)
}
