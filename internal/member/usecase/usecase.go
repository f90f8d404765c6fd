package usecase

import (
	"context"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/uid"
	"go.opentelemetry.io/otel/trace"
)

// KeyIdempotencyTTL is how long a completed create is remembered per key.
const KeyIdempotencyTTL = "member.idempotency.ttl"

type repoDB interface {
	GetMemberByID(ctx context.Context, id int64) (*entity.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*entity.Member, error)
	ListMembers(ctx context.Context, filter entity.MemberListFilter) ([]entity.Member, int64, error)

	CreateMember(ctx context.Context, m entity.Member) error
	UpdateMember(ctx context.Context, m entity.Member) error
	DeleteMember(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB   repoDB
	pipeline *pipeline.Pipeline
	config   pipeline.Snapshotter
	idemp    idempotency.Idempotency
	uid      uid.NumberID
	clock    clock.Clocker
	ins      instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Pipeline    *pipeline.Pipeline
	Config      pipeline.Snapshotter
	Idempotency idempotency.Idempotency
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:   dep.RepoDB,
		pipeline: dep.Pipeline,
		config:   dep.Config,
		idemp:    dep.Idempotency,
		uid:      dep.UID,
		clock:    dep.Clock,
		ins:      dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("member.usecase").Start(ctx, name)
}
