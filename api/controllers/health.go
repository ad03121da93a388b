package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/kurvfo/api/responses"
	"github.com/angelmondragon/kurvfo/pkg/config"
	pkgerrors "github.com/angelmondragon/kurvfo/pkg/errors"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

const (
	envHeader        = "X-Kurvfo-Env"
	readinessTimeout = 2 * time.Second
)

// Pinger is a dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LoadState reports whether a component finished its initial load.
type LoadState interface {
	Loaded() bool
}

// ReadinessDeps lists what /health/ready inspects. Nil entries are skipped.
type ReadinessDeps struct {
	CartDB  Pinger
	Redis   Pinger
	Catalog LoadState
	Cart    LoadState
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the cart is loaded and every configured
// dependency answers. A catalog that has not finished its first load is
// reported but does not fail readiness, since an empty catalog is valid.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps ReadinessDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false
		ping := func(name string, p Pinger) {
			if p == nil {
				return
			}
			if err := p.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				checks[name] = "down"
				failed = true
				return
			}
			checks[name] = "ok"
		}
		ping("cart_db", deps.CartDB)
		ping("redis", deps.Redis)

		if deps.Cart != nil {
			if deps.Cart.Loaded() {
				checks["cart"] = "loaded"
			} else {
				checks["cart"] = "loading"
				failed = true
			}
		}
		if deps.Catalog != nil {
			checks["catalog"] = "loading"
			if deps.Catalog.Loaded() {
				checks["catalog"] = "loaded"
			}
		}

		if failed {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
