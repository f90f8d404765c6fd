package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

type AddressInput struct {
	City string
	Zip  string
}

type MemberCreateInput struct {
	Name           string
	Email          string
	Age            int
	Tags           []string
	Address        *AddressInput
	IdempotencyKey string
}

func (in MemberCreateInput) address() (string, string) {
	if in.Address == nil {
		return "", ""
	}
	return in.Address.City, in.Address.Zip
}

func (s *Usecase) MemberCreate(ctx context.Context, in MemberCreateInput) (*entity.Member, error) {
	ctx, span := s.startSpan(ctx, "MemberCreate")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	return pipeline.Run(ctx, s.pipeline, in, validator.Groups(GroupCreate), func(ctx context.Context) (*entity.Member, error) {
		var created *entity.Member
		err := s.idemp.Exec(ctx, in.IdempotencyKey, func(ctx context.Context) error {
			m, err := s.createMember(ctx, in)
			created = m
			return err
		}, idempotency.WithStateTTL(s.config.Current().GetSecond(KeyIdempotencyTTL)))

		return created, err
	})
}

func (s *Usecase) createMember(ctx context.Context, in MemberCreateInput) (*entity.Member, error) {
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	member := entity.Member{
		ID:        s.uid.Generate(),
		Name:      in.Name,
		Email:     in.Email,
		Age:       in.Age,
		Tags:      slices.Clone(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Address != nil {
		member.Address = entity.Address{City: in.Address.City, Zip: in.Address.Zip}
	}

	if err := s.repoDB.CreateMember(ctx, member); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "member email taken while creating", "email", in.Email)
			return nil, goerror.Wrap(entity.MemberEmailTaken, err, "")
		}
		slog.ErrorContext(ctx, "failed to repo create member", "member_id", member.ID, "error", err)
		return nil, goerror.NewInternal(err)
	}

	return &member, nil
}

// ensureEmailFree fails when a member other than selfID uses email.
func (s *Usecase) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repoDB.GetMemberByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member by email", "email", email, "error", err)
		return goerror.NewInternal(err)
	}
	if existing.ID != selfID {
		slog.WarnContext(ctx, "member email already exists", "email", email)
		return goerror.New(entity.MemberEmailTaken, "")
	}
	return nil
}
