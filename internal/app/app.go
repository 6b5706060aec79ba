package app

import (
	"linkhut/internal/config"
	"linkhut/internal/linkhut"
	"linkhut/internal/linkpreview"
	"linkhut/internal/logger"
)

// App holds the collaborators of the bookmark and tag operations.
type App struct {
	Config        *config.Config
	LinkhutClient linkhut.ClientInterface
	Preview       linkpreview.TitleFetcher
	Logger        logger.Logger
}

// Option is a functional option for configuring the App.
type Option func(*App)

// NewApp creates a new App instance with the given options.
func NewApp(opts ...Option) *App {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		app.Logger = logger.Nop()
	}
	return app
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithLinkhutClient sets the LinkHut API client.
func WithLinkhutClient(client linkhut.ClientInterface) Option {
	return func(a *App) {
		a.LinkhutClient = client
	}
}

// WithPreviewClient sets the title lookup used when a bookmark has no title.
func WithPreviewClient(client linkpreview.TitleFetcher) Option {
	return func(a *App) {
		a.Preview = client
	}
}

func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

func (a *App) recentCount() int {
	if a.Config != nil && a.Config.Bookmarks.RecentCount > 0 {
		return a.Config.Bookmarks.RecentCount
	}
	return defaultRecentCount
}

func (a *App) readingListCount() int {
	if a.Config != nil && a.Config.Bookmarks.ReadingListCount > 0 {
		return a.Config.Bookmarks.ReadingListCount
	}
	return defaultReadingListCount
}
