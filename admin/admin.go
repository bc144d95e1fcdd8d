package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"scribe/editor"
	"scribe/models"
	"scribe/poststore"
)

type AdminModule struct {
	gate      *Gate
	newEditor func() *editor.Session

	mu     sync.Mutex
	editor *editor.Session
}

// NewAdminModule serves the editor. newEditor builds a fresh session each
// time the previous one was published or discarded.
func NewAdminModule(gate *Gate, newEditor func() *editor.Session) *AdminModule {
	return &AdminModule{
		gate:      gate,
		newEditor: newEditor,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/login", a.loginPost)
	router.GET("/logout", a.logout)

	editorGroup := router.Group("/editor")
	editorGroup.Use(a.requireAdmin)
	{
		editorGroup.GET("", a.index)
		editorGroup.PUT("/draft", a.input)
		editorGroup.POST("/save", a.save)
		editorGroup.POST("/publish", a.publish)
		editorGroup.POST("/discard", a.discard)
		editorGroup.POST("/format", a.format)
		editorGroup.POST("/shortcut", a.shortcut)
		editorGroup.GET("/preview", a.preview)
		editorGroup.GET("/notifications", a.notifications)
	}
}

func (a *AdminModule) requireAdmin(c *gin.Context) {
	session := sessions.Default(c)
	if ok, _ := session.Get(poststore.AdminKey).(bool); !ok {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Next()
}

func (a *AdminModule) loginPost(c *gin.Context) {
	password := c.PostForm("password")

	if !a.gate.Check(password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password!"})
		return
	}

	session := sessions.Default(c)
	session.Set(poststore.AdminKey, true)
	if err := session.Save(); err != nil {
		slog.WarnContext(c, "Couldn't save session", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't start session"})
		return
	}

	c.Redirect(http.StatusFound, "/editor")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// session returns the live editor session, starting a new one when there is
// none or the last one ended.
func (a *AdminModule) session(ctx context.Context) *editor.Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.editor == nil || a.editor.State().Done() {
		a.editor = a.newEditor()
		a.editor.Start(ctx)
	}
	return a.editor
}

func (a *AdminModule) index(c *gin.Context) {
	s := a.session(c)

	c.JSON(http.StatusOK, gin.H{
		"state":         s.State().String(),
		"draft":         s.Draft(),
		"notifications": s.Notifications(),
	})
}

func (a *AdminModule) input(c *gin.Context) {
	var request models.Draft
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft"})
		return
	}

	s := a.session(c)
	if err := s.Input(request); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": s.State().String()})
}

func (a *AdminModule) save(c *gin.Context) {
	s := a.session(c)
	if err := s.SaveNow(c); err != nil {
		slog.WarnContext(c, "Couldn't save draft", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":         s.State().String(),
		"notifications": s.Notifications(),
	})
}

func (a *AdminModule) publish(c *gin.Context) {
	s := a.session(c)

	post, err := s.Publish(c)
	var verr *poststore.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	if err != nil {
		slog.WarnContext(c, "Couldn't publish post", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't publish post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":              post,
		"redirect":          editor.ReaderURL(post.ID),
		"redirect_after_ms": editor.DefaultRedirectDelay.Milliseconds(),
		"notifications":     s.Notifications(),
	})
}

func (a *AdminModule) discard(c *gin.Context) {
	var request struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s := a.session(c)
	if err := s.RequestDiscard(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := s.ConfirmDiscard(c, request.Confirm); err != nil {
		slog.WarnContext(c, "Couldn't discard draft", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't discard draft"})
		return
	}

	response := gin.H{"state": s.State().String()}
	if request.Confirm {
		response["redirect"] = "/"
	}
	c.JSON(http.StatusOK, response)
}

// selectionRequest offsets are UTF-16 code units, the textarea's
// selectionStart and selectionEnd.
type selectionRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (a *AdminModule) format(c *gin.Context) {
	var request struct {
		selectionRequest
		Action editor.Action `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s := a.session(c)
	cursor, err := s.ApplyFormat(request.Action, request.Start, request.End)
	if errors.Is(err, editor.ErrUnknownAction) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": s.Draft().Content,
		"cursor":  cursor,
	})
}

func (a *AdminModule) shortcut(c *gin.Context) {
	var request struct {
		selectionRequest
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s := a.session(c)
	cursor, handled, err := s.Shortcut(c, request.Key, request.Start, request.End)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"handled":       handled,
		"content":       s.Draft().Content,
		"cursor":        cursor,
		"notifications": s.Notifications(),
	})
}

func (a *AdminModule) preview(c *gin.Context) {
	p, err := a.session(c).Preview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't render preview"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *AdminModule) notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": a.session(c).Notifications()})
}
