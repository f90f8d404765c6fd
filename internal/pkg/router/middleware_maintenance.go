package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
)

// KeyMaintenanceEndpoints lists route patterns answered with 503. It is read
// per request, so a configuration refresh takes effect immediately.
const KeyMaintenanceEndpoints = "app.maintenance.endpoints"

func middlewareMaintenance(store pipeline.Snapshotter, codec errorCodec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			for _, endpoint := range store.Current().GetArray(KeyMaintenanceEndpoints) {
				if strings.TrimSpace(endpoint) == route {
					codec(r.Context(), w, goerror.New(Unavailable, ""))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
