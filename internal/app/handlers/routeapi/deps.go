// Package routeapi implements spec.md §6's thin JSON request surface:
// gin handlers that bind a request, call one domain operation, and
// render its result — no business logic lives here.
package routeapi

import (
	"context"

	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/route"
	"github.com/FACorreiaa/loci-route/internal/app/domain/semantic"
	"github.com/FACorreiaa/loci-route/internal/app/domain/spatial"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// Deps bundles every service a handler needs, built once at startup
// and passed to each handler constructor by routes.Setup.
type Deps struct {
	Config        *config.Config
	Spatial       *spatial.Index
	Semantic      *semantic.Client
	Orchestrator  *semantic.Orchestrator
	POIStore      *poi.Store
	RouteCache    *route.Cache
	Replacer      *route.Replacer
	Redis         *redis.Client
	Qdrant        *qdrant.Client
	DBPing        func(ctx context.Context) error
	Logger        *zap.Logger
}
