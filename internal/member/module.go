package member

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/member/inbound"
	"github.com/shandysiswandi/gatekeep/internal/member/outbound/db"
	"github.com/shandysiswandi/gatekeep/internal/member/outbound/memory"
	"github.com/shandysiswandi/gatekeep/internal/member/usecase"
	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
	"github.com/shandysiswandi/gatekeep/internal/pkg/uid"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

type Dependency struct {
	Router      *router.Router
	Classifier  *classifier.Classifier
	Store       pipeline.Snapshotter
	Idempotency idempotency.Idempotency
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	Clock       clock.Clocker

	// DBConn selects the postgres repository; nil keeps members in memory.
	DBConn *pgxpool.Pool
}

func checkDependency(dep Dependency) error {
	schema := validator.NewSchema()
	for _, path := range []string{"router", "classifier", "store", "idempotency", "instrument", "uid", "clock"} {
		if err := schema.RegisterConstraint(path, validator.NotNull()); err != nil {
			return err
		}
	}

	exec, err := validator.NewExecutor(schema)
	if err != nil {
		return err
	}

	if err := exec.Validate(dep); err != nil {
		return fmt.Errorf("member: invalid dependency: %w", err)
	}
	return nil
}

type repository interface {
	GetMemberByID(ctx context.Context, id int64) (*entity.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*entity.Member, error)
	ListMembers(ctx context.Context, filter entity.MemberListFilter) ([]entity.Member, int64, error)
	CreateMember(ctx context.Context, m entity.Member) error
	UpdateMember(ctx context.Context, m entity.Member) error
	DeleteMember(ctx context.Context, id int64) error
}

func newRepository(ctx context.Context, dep Dependency) (repository, error) {
	if dep.DBConn == nil {
		return memory.New(), nil
	}

	repo := db.NewDB(dep.DBConn, dep.Instrument)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("member: migrate: %w", err)
	}
	return repo, nil
}

func New(ctx context.Context, dep Dependency) error {
	if err := checkDependency(dep); err != nil {
		return err
	}

	exec, err := usecase.NewValidator(validator.WithClock(dep.Clock))
	if err != nil {
		return err
	}

	repo, err := newRepository(ctx, dep)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      repo,
		Pipeline:    pipeline.New(exec, dep.Classifier, dep.Store),
		Config:      dep.Store,
		Idempotency: dep.Idempotency,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
