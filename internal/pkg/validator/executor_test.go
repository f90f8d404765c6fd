package validator

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type signup struct {
	ID       *int64   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Age      int      `json:"age"`
	Password string   `json:"password"`
	Tags     []string `json:"tags"`
	Address  *address `json:"address"`
}

func snapshot(t *testing.T, values map[string]any) *config.Snapshot {
	t.Helper()
	snap, err := config.Resolve([]config.Layer{config.Base(values)})
	require.NoError(t, err)
	return snap
}

func newSignupExecutor(t *testing.T, opts ...ExecutorOption) *Executor {
	t.Helper()

	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("name", NotBlank()))
	require.NoError(t, s.RegisterConstraint("email", NotBlank()))
	require.NoError(t, s.RegisterConstraint("email", Email()))
	require.NoError(t, s.RegisterConstraint("age", Min(18)))
	require.NoError(t, s.RegisterConstraint("id", NotNull(InGroups("update"))))

	e, err := NewExecutor(s, opts...)
	require.NoError(t, err)
	return e
}

func TestExecutor_Evaluate_ReportsEveryViolationInOrder(t *testing.T) {
	e := newSignupExecutor(t)

	got := e.Evaluate(signup{Name: "", Email: "bad", Age: 15}, Groups(), nil)

	require.Len(t, got, 3)
	assert.Equal(t, []string{
		"name: must not be blank",
		"email: must be a valid email",
		"age: must be >= 18",
	}, got.Details())
	assert.Equal(t, KindRange, got[2].Kind)
	assert.Equal(t, 15, got[2].InvalidValue)
}

func TestExecutor_Evaluate_Valid(t *testing.T) {
	e := newSignupExecutor(t)

	got := e.Evaluate(&signup{Name: "Ada", Email: "ada@example.com", Age: 36}, Groups("create"), nil)

	assert.Empty(t, got)
	assert.NoError(t, got.Err())
}

func TestExecutor_Evaluate_Groups(t *testing.T) {
	e := newSignupExecutor(t)
	valid := signup{Name: "Ada", Email: "ada@example.com", Age: 36}

	assert.Empty(t, e.Evaluate(valid, Groups("create"), nil))

	got := e.Evaluate(valid, Groups("update"), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "id: must not be null", got[0].Detail())

	id := int64(7)
	valid.ID = &id
	assert.Empty(t, e.Evaluate(valid, Groups("update"), nil))
}

func TestExecutor_Evaluate_Idempotent(t *testing.T) {
	e := newSignupExecutor(t)
	in := signup{Email: "bad", Age: 3}

	assert.Equal(t, e.Evaluate(in, Groups("update"), nil), e.Evaluate(in, Groups("update"), nil))
}

func TestExecutor_Evaluate_FailFast(t *testing.T) {
	e := newSignupExecutor(t)
	cfg := snapshot(t, map[string]any{"validation": map[string]any{"fail-fast": true}})

	got := e.Evaluate(signup{Email: "bad", Age: 15}, Groups(), cfg)

	require.Len(t, got, 1)
	assert.Equal(t, "name", got[0].Path)
}

func TestExecutor_Evaluate_DisabledKinds(t *testing.T) {
	e := newSignupExecutor(t)
	cfg := snapshot(t, map[string]any{"VALIDATION_DISABLED_KINDS": "email, numeric-range"})

	got := e.Evaluate(signup{Email: "bad", Age: 15}, Groups(), cfg)

	assert.Equal(t, []string{"name: must not be blank"}, got.Details())
}

func TestExecutor_Evaluate_Sensitive(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("password", Size(8, 72, Sensitive())))
	require.NoError(t, s.RegisterConstraint("email", Email()))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	got := e.Evaluate(signup{Password: "short", Email: "bad"}, Groups(), nil)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].InvalidValue)
	assert.Equal(t, "password: size must be between 8 and 72", got[0].Detail())
	assert.Equal(t, "bad", got[1].InvalidValue)

	cfg := snapshot(t, map[string]any{"validation.sensitive-fields": []any{"email"}})
	got = e.Evaluate(signup{Password: "short", Email: "bad"}, Groups(), cfg)
	require.Len(t, got, 2)
	assert.Nil(t, got[1].InvalidValue)
}

func TestExecutor_Evaluate_Collections(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("tags[*]", NotBlank()))
	require.NoError(t, s.RegisterConstraint("tags[*]", Size(1, 5)))
	require.NoError(t, s.RegisterConstraint("tags[0]", Pattern(`^[a-z]+$`)))
	require.NoError(t, s.RegisterConstraint("tags", Size(1, -1)))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	got := e.Evaluate(signup{Tags: []string{"go", " ", "toolong"}}, Groups(), nil)
	assert.Equal(t, []string{
		"tags[1]: must not be blank",
		"tags[2]: size must be between 1 and 5",
	}, got.Details())

	got = e.Evaluate(signup{Tags: []string{"Go"}}, Groups(), nil)
	assert.Equal(t, []string{`tags[0]: must match "^[a-z]+$"`}, got.Details())

	got = e.Evaluate(signup{Tags: []string{}}, Groups(), nil)
	assert.Equal(t, []string{"tags: size must be at least 1"}, got.Details())
}

func TestExecutor_Evaluate_NestedPathsAndNil(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("address.zip", Pattern(`^[0-9]{5}$`)))
	require.NoError(t, s.RegisterConstraint("address.city", NotNull()))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	got := e.Evaluate(signup{}, Groups(), nil)
	assert.Equal(t, []string{"address.city: must not be null"}, got.Details(),
		"a nil value passes every kind except the null checks")

	got = e.Evaluate(signup{Address: &address{City: "Oslo", Zip: "12a"}}, Groups(), nil)
	assert.Equal(t, []string{`address.zip: must match "^[0-9]{5}$"`}, got.Details())

	got = e.Evaluate(map[string]any{"address": map[string]any{"city": "Oslo", "zip": "12345"}}, Groups(), nil)
	assert.Empty(t, got)
}

func TestExecutor_Evaluate_ObjectLevelRule(t *testing.T) {
	var seen []int
	s := NewSchema()
	require.NoError(t, s.RegisterCustomRule("city-requires-zip", func(value any, params Params) bool {
		seen = append(seen, params[FieldViolations].(int))
		if params[FieldViolations].(int) > 0 {
			return true
		}
		in := value.(signup)
		return in.Address == nil || in.Address.City == "" || in.Address.Zip != ""
	}, WithDefaultMessage("city requires a zip code")))
	require.NoError(t, s.RegisterConstraint("", Custom("city-requires-zip", nil)))
	require.NoError(t, s.RegisterConstraint("name", NotBlank()))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	got := e.Evaluate(signup{Name: "Ada", Address: &address{City: "Oslo"}}, Groups(), nil)
	assert.Equal(t, []string{"city requires a zip code"}, got.Details())
	assert.Equal(t, "", got[0].Path)

	got = e.Evaluate(signup{Address: &address{City: "Oslo"}}, Groups(), nil)
	assert.Equal(t, []string{"name: must not be blank"}, got.Details())
	assert.Equal(t, []int{0, 1}, seen)
}

func TestExecutor_Evaluate_CustomRuleMessageTemplate(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterCustomRule("multiple-of", func(value any, params Params) bool {
		n, ok := value.(int)
		return ok && n%params["n"].(int) == 0
	}))
	require.NoError(t, s.RegisterConstraint("age", Custom("multiple-of", Params{"n": 5},
		WithMessage("must be a multiple of {n}"))))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	got := e.Evaluate(signup{Age: 21}, Groups(), nil)
	assert.Equal(t, []string{"age: must be a multiple of 5"}, got.Details())
	assert.Equal(t, Kind("multiple-of"), got[0].Kind)
}

func TestExecutor_Evaluate_PanickingRule(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterCustomRule("explode", func(any, Params) bool {
		panic("boom")
	}))
	require.NoError(t, s.RegisterConstraint("name", Custom("explode", nil)))
	require.NoError(t, s.RegisterConstraint("age", Positive()))
	e, err := NewExecutor(s)
	require.NoError(t, err)

	var got Violations
	assert.NotPanics(t, func() {
		got = e.Evaluate(signup{Name: "x", Age: -1}, Groups(), nil)
	})
	assert.Equal(t, []string{"name: is invalid", "age: must be greater than 0"}, got.Details())
}

func TestExecutor_Evaluate_Temporal(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("born", Past()))
	require.NoError(t, s.RegisterConstraint("expires", Future()))
	e, err := NewExecutor(s, WithClock(clock.Fixed(now)))
	require.NoError(t, err)

	assert.Empty(t, e.Evaluate(map[string]any{
		"born":    now.Add(-time.Hour),
		"expires": "2027-01-01T00:00:00Z",
	}, Groups(), nil))

	got := e.Evaluate(map[string]any{"born": now, "expires": now}, Groups(), nil)
	assert.Equal(t, []string{"born: must be in the past", "expires: must be in the future"}, got.Details())
}

func TestExecutor_Validate(t *testing.T) {
	cfg := snapshot(t, map[string]any{"validation.fail-fast": "true"})
	e := newSignupExecutor(t, WithConfig(cfg))

	err := e.Validate(signup{Email: "bad"}, "update")
	vs, ok := AsViolations(err)
	require.True(t, ok)
	assert.Len(t, vs, 1)

	assert.NoError(t, e.Validate(signup{Name: "Ada", Email: "ada@example.com", Age: 40}))
}

func TestNewExecutor_UnknownKind(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterConstraint("name", Custom("not-registered", nil)))

	_, err := NewExecutor(s)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewExecutor_FreezesSchema(t *testing.T) {
	s := NewSchema()
	_, err := NewExecutor(s)
	require.NoError(t, err)

	assert.ErrorIs(t, s.RegisterConstraint("name", NotBlank()), ErrSchemaFrozen)
	assert.ErrorIs(t, s.RegisterCustomRule("late", func(any, Params) bool { return true }), ErrSchemaFrozen)
}
