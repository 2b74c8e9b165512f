package controllers

import (
	"net/http"

	"github.com/visionapps/darkshop-core/api/responses"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/db"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DarkShop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the durable store and, when configured, the volatile
// store. Redis being down degrades readiness to a warning since the session
// mirror can fall back to memory.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-DarkShop-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok"}
		healthy := true

		if dbP == nil {
			checks["db"] = "not configured"
			healthy = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			healthy = false
		}

		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				logg.Warn(ctx, "redis ping failed on readiness check")
			}
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": checks,
			})
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
