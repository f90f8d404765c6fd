package member

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCID string

func (f fixedCID) Generate() string { return string(f) }

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type envelope struct {
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Meta       map[string]any  `json:"meta"`
	StatusCode int             `json:"statusCode"`
	ErrorCode  string          `json:"errorCode"`
	Details    json.RawMessage `json:"details"`
}

func newDependency(t *testing.T) Dependency {
	t.Helper()

	store := config.NewStaticStore(nil)

	reg, err := classifier.DefaultRegistry(router.RegistryOptions()...)
	require.NoError(t, err)
	cls, err := classifier.New(reg)
	require.NoError(t, err)

	exec, err := validator.NewExecutor(validator.NewSchema())
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Store:    store,
		Pipeline: pipeline.New(exec, cls, store),
		UUID:     fixedCID("cid-1"),
	})

	return Dependency{
		Router:      r,
		Classifier:  cls,
		Store:       store,
		Idempotency: idempotency.Noop{},
		Instrument:  instrument.NewNoop(),
		UID:         &seqID{},
		Clock:       clock.Fixed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func do(t *testing.T, h http.Handler, method, target, payload string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestNew_Dependency(t *testing.T) {
	// Arrange
	dep := newDependency(t)
	dep.Classifier = nil
	dep.Clock = nil

	// Act
	err := New(context.Background(), dep)

	// Assert
	require.Error(t, err)
	assert.ErrorContains(t, err, "member: invalid dependency")

	vs, ok := validator.AsViolations(err)
	require.True(t, ok)
	assert.Equal(t, []string{"classifier: must not be null", "clock: must not be null"}, vs.Details())
}

func TestMembersHTTP(t *testing.T) {
	// Arrange
	dep := newDependency(t)
	require.NoError(t, New(context.Background(), dep))
	h := dep.Router

	// Act & Assert: create
	code, env := do(t, h, http.MethodPost, "/api/v1/members",
		`{"name":"Ada","email":"ada@example.com","age":36,"tags":["math"],"address":{"city":"London","zip":"12345"}}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Member created", env.Message)
	assert.JSONEq(t, `{
		"id":"1","name":"Ada","email":"ada@example.com","age":36,"tags":["math"],
		"address":{"city":"London","zip":"12345"},
		"created_at":"2026-03-01T00:00:00Z","updated_at":"2026-03-01T00:00:00Z"
	}`, string(env.Data))

	// validation failure
	code, env = do(t, h, http.MethodPost, "/api/v1/members", `{"name":"","email":"bad","age":15}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", env.ErrorCode)
	assert.JSONEq(t, `["name: must not be blank","email: must be a valid email","age: must be >= 18"]`, string(env.Details))

	// duplicate email
	code, env = do(t, h, http.MethodPost, "/api/v1/members", `{"name":"Ada","email":"ADA@example.com","age":36}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "MEMBER_EMAIL_TAKEN", env.ErrorCode)

	// detail
	code, env = do(t, h, http.MethodGet, "/api/v1/members/1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"ada@example.com"`)

	code, env = do(t, h, http.MethodGet, "/api/v1/members/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_INPUT", env.ErrorCode)

	// update
	code, env = do(t, h, http.MethodPut, "/api/v1/members/1", `{"age":40}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"age":40`)

	// list
	code, env = do(t, h, http.MethodGet, "/api/v1/members?page=1&size=5", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"page": float64(1), "size": float64(5), "total": float64(1)}, env.Meta)

	// delete then missing
	code, _ = do(t, h, http.MethodDelete, "/api/v1/members/1", "")
	assert.Equal(t, http.StatusNoContent, code)

	code, env = do(t, h, http.MethodGet, "/api/v1/members/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)
	assert.Equal(t, "member not found", env.Message)
}
