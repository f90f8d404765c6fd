package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/stacktrace"
)

//nolint:contextcheck // the request context is used for the response
func middlewareRecoverer(codec errorCodec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					//nolint:err113,errorlint // this must compare directly
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					paths := stacktrace.InternalPaths(debug.Stack())
					if len(paths) == 0 {
						slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(debug.Stack()))
					} else {
						slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
					}

					if r.Header.Get("Connection") == "Upgrade" {
						return
					}
					codec(r.Context(), w, goerror.NewInternal(fmt.Errorf("panic: %v", rvr)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
