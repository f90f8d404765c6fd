package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type greetRequest struct {
	Name string `json:"name"`
}

type body struct {
	StatusCode int             `json:"statusCode"`
	ErrorCode  string          `json:"errorCode"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details"`
	Data       any             `json:"data"`
}

func newTestRouter(t *testing.T, maintenance *string) (*Router, *config.Store) {
	t.Helper()

	store, err := config.NewStore(func() ([]config.Layer, error) {
		return []config.Layer{config.Base(map[string]any{
			KeyMaintenanceEndpoints: *maintenance,
		})}, nil
	})
	require.NoError(t, err)

	s := validator.NewSchema()
	require.NoError(t, s.RegisterConstraint("name", validator.NotBlank()))
	exec, err := validator.NewExecutor(s)
	require.NoError(t, err)

	reg, err := classifier.DefaultRegistry(RegistryOptions()...)
	require.NoError(t, err)
	cls, err := classifier.New(reg)
	require.NoError(t, err)

	p := pipeline.New(exec, cls, store)
	r := NewRouter(Config{Store: store, Pipeline: p, UUID: fixedID("generated-cid")})

	r.POST("/greet", func(req *Request) (any, error) {
		var in greetRequest
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return p.Process(req.Context(), in, validator.Groups(), func(_ context.Context, obj any) (any, error) {
			return map[string]string{"greeting": "hello " + obj.(greetRequest).Name}, nil
		}).Unpack()
	})
	r.GET("/panic", func(*Request) (any, error) {
		panic("boom")
	})
	r.DELETE("/items/:id", func(req *Request) (any, error) {
		if _, err := req.GetParamInt64("id"); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return r, store
}

func serve(r http.Handler, method, target, payload string, headers ...string) (*httptest.ResponseRecorder, body) {
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var b body
	_ = json.Unmarshal(rec.Body.Bytes(), &b)
	return rec, b
}

func TestRouter_Success(t *testing.T) {
	var maintenance string
	r, _ := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodPost, "/greet", `{"name":"Ada"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"greeting": "hello Ada"}, b.Data)
	assert.Equal(t, "generated-cid", rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_ValidationFailure(t *testing.T) {
	var maintenance string
	r, _ := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodPost, "/greet", `{"name":" "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, b.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", b.ErrorCode)
	assert.JSONEq(t, `["name: must not be blank"]`, string(b.Details))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRouter_BadInput(t *testing.T) {
	var maintenance string
	r, _ := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodPost, "/greet", `{"nickname":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_INPUT", b.ErrorCode)

	rec, b = serve(r, http.MethodDelete, "/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Path parameter id must be an integer", b.Message)
	assert.JSONEq(t, `"got \"abc\""`, string(b.Details))

	rec, _ = serve(r, http.MethodDelete, "/items/12", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_RoutingErrors(t *testing.T) {
	var maintenance string
	r, _ := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ENDPOINT_NOT_FOUND", b.ErrorCode)

	rec, b = serve(r, http.MethodGet, "/greet", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", b.ErrorCode)
}

func TestRouter_PanicIsClassified(t *testing.T) {
	var maintenance string
	r, _ := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodGet, "/panic", "", HeaderCorrelationID, "cid-42")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", b.ErrorCode)
	assert.Equal(t, "Internal server error", b.Message)
	assert.JSONEq(t, `"reference: cid-42"`, string(b.Details))
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRouter_MaintenanceFollowsRefresh(t *testing.T) {
	maintenance := "/greet, /panic"
	r, store := newTestRouter(t, &maintenance)

	rec, b := serve(r, http.MethodPost, "/greet", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", b.ErrorCode)
	assert.Equal(t, "Service is under maintenance", b.Message)

	maintenance = ""
	require.NoError(t, store.Refresh())

	rec, _ = serve(r, http.MethodPost, "/greet", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "true client ip", headers: map[string]string{"True-Client-IP": "10.0.0.1"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, remote: "1.1.1.1:80", want: "10.0.0.2"},
		{name: "invalid header falls back", headers: map[string]string{"X-Real-IP": "nope"}, remote: "1.1.1.1:80", want: "1.1.1.1"},
		{name: "nothing usable", remote: "garbage", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, realIP(req))
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestMaskHeaders(t *testing.T) {
	h := http.Header{
		"Authorization": {"Bearer token"},
		"X-Api-Key":     {"k"},
		"Accept":        {"*/*"},
	}

	got := maskHeaders(h, []string{"authorization", "x_api_key"})

	assert.Equal(t, "***", got.Get("Authorization"))
	assert.Equal(t, "***", got.Get("X-Api-Key"))
	assert.Equal(t, "*/*", got.Get("Accept"))
	assert.Equal(t, "Bearer token", h.Get("Authorization"), "input is not modified")
	assert.Equal(t, h, maskHeaders(h, nil))
}

func TestResponseRecorder(t *testing.T) {
	rec := &responseRecorder{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, rec.statusCode())
	assert.Empty(t, rec.errorCode())

	rec.fail(assert.AnError, classifier.ErrorResponse{StatusCode: http.StatusConflict, ErrorCode: "MEMBER_EMAIL_TAKEN"})
	rec.WriteHeader(http.StatusConflict)
	rec.WriteHeader(http.StatusInternalServerError)
	_, err := rec.Write([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.statusCode())
	assert.Equal(t, "MEMBER_EMAIL_TAKEN", rec.errorCode())
	assert.Equal(t, assert.AnError, rec.cause)
	assert.Equal(t, 2, rec.bytes)
}
