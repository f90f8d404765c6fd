package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers. Every helper
// fails with a goerror.BadInput whose reason names the offending input.
type Request struct {
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 reads a path parameter as int64.
func (r *Request) GetParamInt64(key string) (int64, error) {
	raw := r.GetParam(key)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerror.NewWithReason(goerror.BadInput, "Path parameter "+key+" must be an integer", fmt.Sprintf("got %q", raw))
	}
	return value, nil
}

// GetQuery reads a trimmed query parameter.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt32 reads a query parameter as int32; absent means zero.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, goerror.NewWithReason(goerror.BadInput, "Query parameter "+key+" must be an integer", fmt.Sprintf("got %q", raw))
	}
	return int32(value), nil
}

// DecodeBody decodes exactly one JSON value into dst. Unknown fields and
// trailing data are rejected.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewWithReason(goerror.BadInput, "Request body is required", "")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewWithReason(goerror.BadInput, "Invalid request body", err.Error())
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewWithReason(goerror.BadInput, "Invalid request body", "unexpected data after the JSON value")
	}

	return nil
}
