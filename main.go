package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scribe/admin"
	"scribe/blog"
	"scribe/cache"
	"scribe/common"
	"scribe/database"
	"scribe/editor"
	"scribe/markdown"
	"scribe/poststore"
	"scribe/schedule"
)

func main() {
	cfg := common.LoadConfig()
	slog.SetDefault(common.NewLogger(cfg, os.Stderr))

	kvStore, err := common.OpenStore(cfg, database.RunMigrations)
	if err != nil {
		slog.Error("Failed to open store", slog.Any("err", err))
		os.Exit(1)
	}
	posts := poststore.New(kvStore)

	renderer := markdown.NewRenderer(cfg.SanitizeHTML)
	renderCache, err := cache.NewRenderCache(renderer, cache.DefaultSize)
	if err != nil {
		slog.Error("Failed to build render cache", slog.Any("err", err))
		os.Exit(1)
	}

	gate, err := admin.NewGate(cfg.AdminPassword)
	if err != nil {
		slog.Error("Failed to set up editor password", slog.Any("err", err))
		os.Exit(1)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		// The editor flag only has to last for the browser session.
		slog.Warn("SESSION_SECRET not set, editor logins won't survive a restart")
		sessionSecret = uuid.NewString()
	}

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("scribe-session", store))

	adminModule := admin.NewAdminModule(gate, func() *editor.Session {
		return editor.NewSession(posts, renderer, schedule.RealClock(), editor.Config{
			AutosaveDelay: cfg.AutosaveDelay,
			OnRedirect: func(target string) {
				slog.Debug("Editor redirect", slog.String("target", target))
			},
		})
	})
	adminModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(posts, renderCache)
	blogModule.RegisterRoutes(router)

	slog.Info("Starting server", slog.String("port", cfg.Port))
	if err := common.NewServer(cfg, router).ListenAndServe(); err != nil {
		slog.Error("Failed to start server", slog.Any("err", err))
		os.Exit(1)
	}
}
