package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

type MemberDeleteInput struct {
	ID int64
}

func (s *Usecase) MemberDelete(ctx context.Context, in MemberDeleteInput) error {
	ctx, span := s.startSpan(ctx, "MemberDelete")
	defer span.End()

	_, err := pipeline.Run(ctx, s.pipeline, in, validator.Groups(GroupLookup), func(ctx context.Context) (struct{}, error) {
		err := s.repoDB.DeleteMember(ctx, in.ID)
		if errors.Is(err, goerror.ErrNotFound) {
			return struct{}{}, goerror.NewNotFound("member", in.ID)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo delete member", "member_id", in.ID, "error", err)
			return struct{}{}, goerror.NewInternal(err)
		}
		return struct{}{}, nil
	})

	return err
}
