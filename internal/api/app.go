// Package api wires the HTTP surface: routing, middleware and the handler
// dependencies.
package api

import (
	"context"
	"time"

	"github.com/obilearn/obi/internal/api/handlers"
	"github.com/obilearn/obi/internal/auth"
	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/completion"
	"github.com/obilearn/obi/internal/config"
)

// CatalogStore is the read surface both storage backends implement
type CatalogStore interface {
	catalog.Repository
	completion.ActivityRepository
}

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Auth       *auth.Service
	Catalog    CatalogStore
	Completion *completion.Service
	Resolver   *catalog.Resolver
	Stats      handlers.StatsReader

	// Ping checks storage connectivity for readiness probes
	Ping func(ctx context.Context) error
}

// SessionMaxAge returns the configured session lifetime
func (a *App) SessionMaxAge() time.Duration {
	return time.Duration(a.Config.SessionMaxAge) * time.Second
}
