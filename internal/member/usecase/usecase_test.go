package usecase

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/member/outbound/memory"
	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type onceIdemp struct {
	seen map[string]bool
}

func (o *onceIdemp) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if key != "" && o.seen[key] {
		return goerror.Wrap(idempotency.Replayed, idempotency.ErrAlreadyCompleted, "")
	}
	if err := fn(ctx); err != nil {
		return err
	}
	o.seen[key] = true
	return nil
}

type fixture struct {
	uc   *Usecase
	repo *memory.Memory
	cfg  map[string]any
	st   *config.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{repo: memory.New(), cfg: map[string]any{}}

	st, err := config.NewStore(func() ([]config.Layer, error) {
		return []config.Layer{config.Base(f.cfg)}, nil
	})
	require.NoError(t, err)
	f.st = st

	exec, err := NewValidator(validator.WithClock(clock.Fixed(now)))
	require.NoError(t, err)

	reg, err := classifier.DefaultRegistry()
	require.NoError(t, err)
	cls, err := classifier.New(reg, classifier.WithClock(clock.Fixed(now)))
	require.NoError(t, err)

	f.uc = New(Dependency{
		RepoDB:      f.repo,
		Pipeline:    pipeline.New(exec, cls, st),
		Config:      st,
		Idempotency: &onceIdemp{seen: map[string]bool{}},
		UID:         &seqID{},
		Clock:       clock.Fixed(now),
		Instrument:  instrument.NewNoop(),
	})

	return f
}

func failure(t *testing.T, err error) classifier.ErrorResponse {
	t.Helper()

	var f *pipeline.Failure
	require.ErrorAs(t, err, &f)
	return f.Response
}

func ptr[T any](v T) *T { return &v }

func validCreate() MemberCreateInput {
	return MemberCreateInput{
		Name:    " Ada Lovelace ",
		Email:   "ADA@example.com",
		Age:     36,
		Tags:    []string{"math"},
		Address: &AddressInput{City: "London", Zip: "12345"},
	}
}

func TestMemberCreate(t *testing.T) {
	f := newFixture(t)

	got, err := f.uc.MemberCreate(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, &entity.Member{
		ID:        1,
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Age:       36,
		Tags:      []string{"math"},
		Address:   entity.Address{City: "London", Zip: "12345"},
		CreatedAt: now,
		UpdatedAt: now,
	}, got)

	stored, err := f.repo.GetMemberByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestMemberCreate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		in      MemberCreateInput
		details []string
	}{
		{
			name: "three field violations in declaration order",
			in:   MemberCreateInput{Name: "", Email: "bad", Age: 15},
			details: []string{
				"name: must not be blank",
				"email: must be a valid email",
				"age: must be >= 18",
			},
		},
		{
			name: "every bad tag is reported with its index",
			in:   MemberCreateInput{Name: "Ada", Email: "ada@example.com", Age: 20, Tags: []string{"ok", " ", "this-tag-is-far-too-long"}},
			details: []string{
				"tags[1]: must not be blank",
				"tags[2]: size must be between 1 and 20",
			},
		},
		{
			name:    "zip must be five digits",
			in:      MemberCreateInput{Name: "Ada", Email: "ada@example.com", Age: 20, Address: &AddressInput{City: "London", Zip: "abc"}},
			details: []string{"address.zip: must be 5 digits"},
		},
		{
			name:    "city without zip fails the object rule",
			in:      MemberCreateInput{Name: "Ada", Email: "ada@example.com", Age: 20, Address: &AddressInput{City: "London"}},
			details: []string{"zip code is required when city is set"},
		},
		{
			name:    "object rule is skipped when fields already failed",
			in:      MemberCreateInput{Name: "Ada", Email: "ada@example.com", Age: 5, Address: &AddressInput{City: "London"}},
			details: []string{"age: must be >= 18"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			got, err := f.uc.MemberCreate(context.Background(), tt.in)
			assert.Nil(t, got)

			resp := failure(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_FAILED", resp.ErrorCode)
			assert.Equal(t, tt.details, resp.Details.Items())
			assert.Equal(t, now, resp.Timestamp)

			_, total, _ := f.repo.ListMembers(context.Background(), entity.MemberListFilter{Limit: 10})
			assert.Zero(t, total, "nothing is stored on violations")
		})
	}
}

func TestMemberCreate_FailFast(t *testing.T) {
	f := newFixture(t)
	f.cfg["validation.fail-fast"] = true
	require.NoError(t, f.st.Refresh())

	_, err := f.uc.MemberCreate(context.Background(), MemberCreateInput{Name: "", Email: "bad", Age: 15})
	assert.Equal(t, []string{"name: must not be blank"}, failure(t, err).Details.Items())
}

func TestMemberCreate_Conflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.MemberCreate(ctx, validCreate())
	require.NoError(t, err)

	_, err = f.uc.MemberCreate(ctx, validCreate())
	resp := failure(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "MEMBER_EMAIL_TAKEN", resp.ErrorCode)
	assert.Equal(t, "Member with that email already exists", resp.Message)

	in := validCreate()
	in.Email = "other@example.com"
	in.IdempotencyKey = "key-1"
	_, err = f.uc.MemberCreate(ctx, in)
	require.NoError(t, err)

	_, err = f.uc.MemberCreate(ctx, in)
	resp = failure(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REQUEST_REPLAYED", resp.ErrorCode)
}

func TestMemberUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ada, err := f.uc.MemberCreate(ctx, validCreate())
	require.NoError(t, err)
	other := validCreate()
	other.Email = "grace@example.com"
	_, err = f.uc.MemberCreate(ctx, other)
	require.NoError(t, err)

	got, err := f.uc.MemberUpdate(ctx, MemberUpdateInput{ID: ada.ID, Age: ptr(37), Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, 37, got.Age)
	assert.Equal(t, "Ada Lovelace", got.Name, "nil fields are unchanged")
	assert.Empty(t, got.Tags)

	_, err = f.uc.MemberUpdate(ctx, MemberUpdateInput{ID: ada.ID, Name: ptr("  "), Email: ptr("nope")})
	assert.Equal(t, []string{"name: must not be blank", "email: must be a valid email"}, failure(t, err).Details.Items())

	_, err = f.uc.MemberUpdate(ctx, MemberUpdateInput{ID: ada.ID, Email: ptr("GRACE@example.com")})
	assert.Equal(t, "MEMBER_EMAIL_TAKEN", failure(t, err).ErrorCode)

	_, err = f.uc.MemberUpdate(ctx, MemberUpdateInput{ID: 99, Age: ptr(40)})
	resp := failure(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "member not found", resp.Message)

	_, err = f.uc.MemberUpdate(ctx, MemberUpdateInput{ID: 0})
	assert.Equal(t, []string{"id: must be greater than 0"}, failure(t, err).Details.Items())
}

func TestMemberGetDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ada, err := f.uc.MemberCreate(ctx, validCreate())
	require.NoError(t, err)

	got, err := f.uc.MemberGet(ctx, MemberGetInput{ID: ada.ID})
	require.NoError(t, err)
	assert.Equal(t, ada, got)

	require.NoError(t, f.uc.MemberDelete(ctx, MemberDeleteInput{ID: ada.ID}))

	_, err = f.uc.MemberGet(ctx, MemberGetInput{ID: ada.ID})
	assert.Equal(t, "NOT_FOUND", failure(t, err).ErrorCode)

	err = f.uc.MemberDelete(ctx, MemberDeleteInput{ID: ada.ID})
	assert.Equal(t, http.StatusNotFound, failure(t, err).StatusCode)

	err = f.uc.MemberDelete(ctx, MemberDeleteInput{ID: -1})
	assert.Equal(t, "VALIDATION_FAILED", failure(t, err).ErrorCode)
}

func TestMemberList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		in := validCreate()
		in.Email = email
		_, err := f.uc.MemberCreate(ctx, in)
		require.NoError(t, err)
	}

	got, err := f.uc.MemberList(ctx, MemberListInput{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.Page)
	assert.Equal(t, int64(3), got.Total)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "c@example.com", got.Members[0].Email)

	got, err = f.uc.MemberList(ctx, MemberListInput{Page: math.MaxInt32, Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	assert.Empty(t, got.Members, "a page past the end must not wrap around")

	got, err = f.uc.MemberList(ctx, MemberListInput{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), got.Page)
	assert.Equal(t, int32(defaultPageSize), got.Size)

	_, err = f.uc.MemberList(ctx, MemberListInput{Size: 500})
	assert.Equal(t, []string{"size: must be between 0 and 100"}, failure(t, err).Details.Items())
}
