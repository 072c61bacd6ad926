package api

import (
	"github.com/fisiomanager/backend/internal/cache"
	"github.com/fisiomanager/backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Handler carries the shared dependencies of all HTTP handlers. The repo
// layer is split between pgx (users, evolutions, appointments) and gorm raw
// SQL (patients, assessments), so both handles live here.
type Handler struct {
	Pool  *pgxpool.Pool
	DB    *gorm.DB
	Cfg   *config.Config
	Cache *cache.TTL
}
