package blog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"scribe/cache"
	"scribe/markdown"
	"scribe/models"
	"scribe/poststore"
	"scribe/reader"
	"scribe/search"
)

// PostSource is the read side of the post store.
type PostSource interface {
	reader.PostSource
	FindPost(ctx context.Context, id string) (models.Post, error)
}

type BlogModule struct {
	posts    PostSource
	renderer reader.Renderer
}

func NewBlogModule(posts PostSource, renderer reader.Renderer) *BlogModule {
	return &BlogModule{posts: posts, renderer: renderer}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/posts/:id", b.post)
	router.GET("/tags", b.tags)
	router.GET("/code.css", b.codeCSS)
}

func (b *BlogModule) index(c *gin.Context) {
	session := reader.NewSession(c, b.posts, b.renderer)

	// Deep link from the editor: open the post, then drop the query.
	if id := c.Query("post"); id != "" {
		_, err := session.Start(id)
		var notFound *poststore.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Post not found",
				"list":  session.List(),
			})
			return
		}
		if err != nil {
			slog.WarnContext(c, "Couldn't render post", slog.String("id", id), slog.Any("err", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't render post"})
			return
		}
		c.Redirect(http.StatusFound, "/posts/"+url.PathEscape(id))
		return
	}

	if q := c.Query("q"); q != "" {
		session.Search(q)
	}
	if tag := c.Query("tag"); tag != "" {
		session.ToggleTag(tag)
	}

	c.JSON(http.StatusOK, session.List())
}

func (b *BlogModule) post(c *gin.Context) {
	id := c.Param("id")

	p, err := b.posts.FindPost(c, id)
	var notFound *poststore.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't load post"})
		return
	}

	// Posts never change after publish, so the tag is known before rendering.
	etag := cache.ETag(p.ID + "\x00" + p.Content)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	detail, err := reader.NewSession(c, b.posts, b.renderer).Open(id)
	if err != nil {
		slog.WarnContext(c, "Couldn't render post", slog.String("id", id), slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't render post"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (b *BlogModule) tags(c *gin.Context) {
	limit := search.TopTagLimit
	if c.Query("all") != "" {
		limit = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": search.PopularTags(b.posts.LoadPosts(c), limit),
	})
}

func (b *BlogModule) codeCSS(c *gin.Context) {
	var buf bytes.Buffer
	if err := markdown.WriteCodeCSS(&buf); err != nil {
		slog.WarnContext(c, "Couldn't write code stylesheet", slog.Any("err", err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "text/css; charset=utf-8", buf.Bytes())
}
