package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/mvasseur/fripe-backend/api/responses"
	"github.com/mvasseur/fripe-backend/pkg/config"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
)

// Pinger is any dependency that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fripe-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every registered dependency responds.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fripe-Env", cfg.App.Env)

		var errs error
		failing := make([]string, 0)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, err)
				failing = append(failing, name)
			}
		}

		if errs != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
