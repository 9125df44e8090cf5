package handlers

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/thebettingsean/trends-api/cache"
	"github.com/thebettingsean/trends-api/engine"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	engine *engine.Engine
	cache  *cache.Cache
	log    *zap.Logger
	JWTKey []byte
}

// New creates a Handler. cache may be nil when caching is disabled.
func New(db *bun.DB, eng *engine.Engine, c *cache.Cache, log *zap.Logger, jwtKey []byte) *Handler {
	return &Handler{db: db, engine: eng, cache: c, log: log, JWTKey: jwtKey}
}
