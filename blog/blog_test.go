package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scribe/cache"
	"scribe/kv"
	"scribe/markdown"
	"scribe/models"
	"scribe/poststore"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.Entry{})
	return db
}

func setupTestStore() *poststore.Store {
	n := 0
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	return poststore.New(kv.NewGormStore(setupTestDB()),
		poststore.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("post-%d", n)
		}),
		poststore.WithClock(func() time.Time { return now }),
	)
}

func setupTestRouter(t *testing.T, store *poststore.Store) *gin.Engine {
	t.Helper()

	renderCache, err := cache.NewRenderCache(markdown.NewRenderer(true), cache.DefaultSize)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBlogModule(store, renderCache).RegisterRoutes(router)
	return router
}

func createTestPost(t *testing.T, store *poststore.Store, title, content, tags string) models.Post {
	t.Helper()
	post, err := store.Publish(context.Background(), models.Draft{
		Title:   title,
		Content: content,
		Author:  "Ana",
		Tags:    tags,
	})
	require.NoError(t, err)
	return post
}

func get(router *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type listResponse struct {
	Items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"items"`
	Empty *struct {
		Title string `json:"title"`
	} `json:"empty"`
	Total int `json:"total"`
}

func decodeList(t *testing.T, body []byte) listResponse {
	t.Helper()
	var lr listResponse
	require.NoError(t, json.Unmarshal(body, &lr))
	return lr
}

func TestIndex_Empty(t *testing.T) {
	router := setupTestRouter(t, setupTestStore())

	w := get(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	lr := decodeList(t, w.Body.Bytes())
	assert.Empty(t, lr.Items)
	require.NotNil(t, lr.Empty)
	assert.Equal(t, "No posts yet", lr.Empty.Title)
}

func TestIndex_NewestFirst(t *testing.T) {
	store := setupTestStore()
	createTestPost(t, store, "Older", "one", "")
	createTestPost(t, store, "Newer", "two", "")
	router := setupTestRouter(t, store)

	lr := decodeList(t, get(router, "/").Body.Bytes())

	require.Len(t, lr.Items, 2)
	assert.Equal(t, "Newer", lr.Items[0].Title)
	assert.Equal(t, "Older", lr.Items[1].Title)
	assert.Equal(t, 2, lr.Total)
}

func TestIndex_SearchAndTag(t *testing.T) {
	store := setupTestStore()
	createTestPost(t, store, "Goroutines", "channels everywhere", "go")
	createTestPost(t, store, "Gardening", "tomatoes", "life")
	createTestPost(t, store, "Go modules", "versions", "go, tooling")
	router := setupTestRouter(t, store)

	lr := decodeList(t, get(router, "/?q=TOMATO").Body.Bytes())
	require.Len(t, lr.Items, 1)
	assert.Equal(t, "Gardening", lr.Items[0].Title)

	lr = decodeList(t, get(router, "/?tag=go").Body.Bytes())
	assert.Len(t, lr.Items, 2)

	lr = decodeList(t, get(router, "/?tag=go&q=versions").Body.Bytes())
	require.Len(t, lr.Items, 1)
	assert.Equal(t, "Go modules", lr.Items[0].Title)

	lr = decodeList(t, get(router, "/?tag=go&q=tomatoes").Body.Bytes())
	assert.Empty(t, lr.Items)
	require.NotNil(t, lr.Empty)
	assert.Equal(t, "No matching posts", lr.Empty.Title)
}

func TestIndex_EscapesTitles(t *testing.T) {
	store := setupTestStore()
	createTestPost(t, store, "<b>bold</b>", "text", "")
	router := setupTestRouter(t, store)

	lr := decodeList(t, get(router, "/").Body.Bytes())

	require.Len(t, lr.Items, 1)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", lr.Items[0].Title)
}

func TestIndex_DeepLink(t *testing.T) {
	store := setupTestStore()
	post := createTestPost(t, store, "Hello", "# Intro", "")
	router := setupTestRouter(t, store)

	w := get(router, "/?post="+post.ID)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+post.ID, w.Header().Get("Location"))
}

func TestIndex_DeepLinkNotFound(t *testing.T) {
	store := setupTestStore()
	createTestPost(t, store, "Hello", "body", "")
	router := setupTestRouter(t, store)

	w := get(router, "/?post=missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error string       `json:"error"`
		List  listResponse `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Post not found", body.Error)
	assert.Len(t, body.List.Items, 1)
}

func TestPost(t *testing.T) {
	store := setupTestStore()
	post := createTestPost(t, store, "Hello", "# Intro\n\n## Details\n\ntext", "go")
	router := setupTestRouter(t, store)

	w := get(router, "/posts/"+post.ID)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var detail struct {
		Title   string `json:"title"`
		Author  string `json:"author"`
		HTML    string `json:"html"`
		Outline struct {
			Entries []struct {
				HeadingID string `json:"headingId"`
			} `json:"entries"`
			Visible bool `json:"visible"`
		} `json:"outline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Hello", detail.Title)
	assert.Equal(t, "By Ana", detail.Author)
	assert.Contains(t, detail.HTML, `id="heading-1"`)
	assert.True(t, detail.Outline.Visible)
	require.Len(t, detail.Outline.Entries, 2)
	assert.Equal(t, "heading-0", detail.Outline.Entries[0].HeadingID)
}

func TestPost_NotModified(t *testing.T) {
	store := setupTestStore()
	post := createTestPost(t, store, "Hello", "body", "")
	router := setupTestRouter(t, store)

	etag := get(router, "/posts/"+post.ID).Header().Get("ETag")
	w := get(router, "/posts/"+post.ID, "If-None-Match", etag)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestPost_NotFound(t *testing.T) {
	router := setupTestRouter(t, setupTestStore())

	w := get(router, "/posts/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTags(t *testing.T) {
	store := setupTestStore()
	createTestPost(t, store, "A", "a", "go, web")
	createTestPost(t, store, "B", "b", "go")
	router := setupTestRouter(t, store)

	w := get(router, "/tags")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Tags []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tags, 2)
	assert.Equal(t, "go", body.Tags[0].Tag)
	assert.Equal(t, 2, body.Tags[0].Count)
}

func TestCodeCSS(t *testing.T) {
	router := setupTestRouter(t, setupTestStore())

	w := get(router, "/code.css")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, w.Body.String(), ".chroma")
}

type countingRenderer struct {
	*markdown.Renderer
	calls int
}

func (r *countingRenderer) Render(src []byte) (markdown.Document, error) {
	r.calls++
	return r.Renderer.Render(src)
}

func TestPost_NotModifiedSkipsRendering(t *testing.T) {
	store := setupTestStore()
	post := createTestPost(t, store, "Hello", "# Intro", "")
	renderer := &countingRenderer{Renderer: markdown.NewRenderer(true)}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBlogModule(store, renderer).RegisterRoutes(router)

	etag := get(router, "/posts/"+post.ID).Header().Get("ETag")
	require.Equal(t, 1, renderer.calls)

	w := get(router, "/posts/"+post.ID, "If-None-Match", etag)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Equal(t, 1, renderer.calls)
}
