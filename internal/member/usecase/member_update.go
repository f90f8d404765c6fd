package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

// MemberUpdateInput patches a member. Nil fields are left unchanged; a
// non-nil Tags replaces every tag.
type MemberUpdateInput struct {
	ID      int64
	Name    *string
	Email   *string
	Age     *int
	Tags    []string
	Address *AddressInput
}

func (in MemberUpdateInput) address() (string, string) {
	if in.Address == nil {
		return "", ""
	}
	return in.Address.City, in.Address.Zip
}

func (s *Usecase) MemberUpdate(ctx context.Context, in MemberUpdateInput) (*entity.Member, error) {
	ctx, span := s.startSpan(ctx, "MemberUpdate")
	defer span.End()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		in.Email = &email
	}

	return pipeline.Run(ctx, s.pipeline, in, validator.Groups(GroupUpdate), func(ctx context.Context) (*entity.Member, error) {
		return s.updateMember(ctx, in)
	})
}

func (s *Usecase) updateMember(ctx context.Context, in MemberUpdateInput) (*entity.Member, error) {
	member, err := s.getMember(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != member.Email {
		if err := s.ensureEmailFree(ctx, *in.Email, member.ID); err != nil {
			return nil, err
		}
		member.Email = *in.Email
	}
	if in.Name != nil {
		member.Name = *in.Name
	}
	if in.Age != nil {
		member.Age = *in.Age
	}
	if in.Tags != nil {
		member.Tags = slices.Clone(in.Tags)
	}
	if in.Address != nil {
		member.Address = entity.Address{City: in.Address.City, Zip: in.Address.Zip}
	}
	member.UpdatedAt = s.clock.Now()

	if err := s.repoDB.UpdateMember(ctx, *member); err != nil {
		switch {
		case errors.Is(err, goerror.ErrConflict):
			return nil, goerror.Wrap(entity.MemberEmailTaken, err, "")
		case errors.Is(err, goerror.ErrNotFound):
			return nil, goerror.NewNotFound("member", in.ID)
		}
		slog.ErrorContext(ctx, "failed to repo update member", "member_id", in.ID, "error", err)
		return nil, goerror.NewInternal(err)
	}

	return member, nil
}
