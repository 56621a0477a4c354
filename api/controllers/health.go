package controllers

import (
	"net/http"

	"github.com/marvindelacruz/hardwarehub-backend/api/responses"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/db"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	pkgredis "github.com/marvindelacruz/hardwarehub-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HardwareHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the hard dependencies answer. Redis is
// optional at boot, so a nil client is simply skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HardwareHub-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok", "redis": "skipped"}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
