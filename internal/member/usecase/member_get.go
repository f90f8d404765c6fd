package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

type MemberGetInput struct {
	ID int64
}

func (s *Usecase) MemberGet(ctx context.Context, in MemberGetInput) (*entity.Member, error) {
	ctx, span := s.startSpan(ctx, "MemberGet")
	defer span.End()

	return pipeline.Run(ctx, s.pipeline, in, validator.Groups(GroupLookup), func(ctx context.Context) (*entity.Member, error) {
		return s.getMember(ctx, in.ID)
	})
}

func (s *Usecase) getMember(ctx context.Context, id int64) (*entity.Member, error) {
	member, err := s.repoDB.GetMemberByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member not found", "member_id", id)
		return nil, goerror.NewNotFound("member", id)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member by id", "member_id", id, "error", err)
		return nil, goerror.NewInternal(err)
	}
	return member, nil
}
