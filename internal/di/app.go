package di

import (
	"log/slog"
	"net/http"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/session"
)

// App bundles the long-lived application components.
type App struct {
	Server       *http.Server
	Logger       *slog.Logger
	Config       *config.Config
	SessionStore *session.Store
}

// NewApp creates an App instance.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	sessionStore *session.Store,
) *App {
	return &App{
		Server:       server,
		Logger:       logger,
		Config:       cfg,
		SessionStore: sessionStore,
	}
}

// Close releases app resources.
func (a *App) Close() {
	if a.SessionStore != nil {
		a.SessionStore.Close()
	}
}
