package dependencies

import (
	"context"
	"errors"
	"net/http"

	"github.com/redhatinsights/platform-go-middlewares/v2/request_id"
	log "github.com/sirupsen/logrus"

	"github.com/uhwot/sacklite/config"
	"github.com/uhwot/sacklite/logger"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/session"
)

// SackliteServices is what request handlers depend on
type SackliteServices struct {
	Config   *config.SackliteConfig
	Keys     npticket.KeyLookup
	Sessions session.Issuer
	Log      log.FieldLogger
}

// Init creates the per request services around the process wide ones
func Init(ctx context.Context, cfg *config.SackliteConfig, keys npticket.KeyLookup, sessions session.Issuer) *SackliteServices {
	return &SackliteServices{
		Config:   cfg,
		Keys:     keys,
		Sessions: sessions,
		Log: log.WithContext(ctx).WithFields(log.Fields{
			"requestId": request_id.GetReqID(ctx),
		}),
	}
}

type servicesKeyType string

// servicesKey is the context key for dependencies on the request context
const servicesKey = servicesKeyType("services")

// ContextWithServices add sacklite services to context
func ContextWithServices(ctx context.Context, services *SackliteServices) context.Context {
	return context.WithValue(ctx, servicesKey, services)
}

// ServicesFromContext return the sacklite services from context
func ServicesFromContext(ctx context.Context) *SackliteServices {
	services, ok := ctx.Value(servicesKey).(*SackliteServices)
	// a missing key means the router was assembled without the dependencies middleware
	if !ok {
		err := errors.New("could not get SackliteServices key value from context")
		logger.LogErrorAndPanic("could not get SackliteServices key value from context", err)
	}

	return services
}

// Middleware serves the sacklite services on the current request context
func Middleware(cfg *config.SackliteConfig, keys npticket.KeyLookup, sessions session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			services := Init(r.Context(), cfg, keys, sessions)
			ctx := ContextWithServices(r.Context(), services)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
