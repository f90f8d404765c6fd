package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

const defaultPageSize = 10

type MemberListInput struct {
	Search string
	Tag    string
	Page   int32
	Size   int32
}

type MemberListOutput struct {
	Page    int32
	Size    int32
	Total   int64
	Members []entity.Member
}

func (s *Usecase) MemberList(ctx context.Context, in MemberListInput) (*MemberListOutput, error) {
	ctx, span := s.startSpan(ctx, "MemberList")
	defer span.End()

	return pipeline.Run(ctx, s.pipeline, in, validator.Groups(GroupList), func(ctx context.Context) (*MemberListOutput, error) {
		size := in.Size
		if size <= 0 {
			size = defaultPageSize
		}
		page := max(in.Page, 1)

		members, total, err := s.repoDB.ListMembers(ctx, entity.MemberListFilter{
			Search: strings.TrimSpace(in.Search),
			Tag:    strings.TrimSpace(in.Tag),
			Limit:  size,
			Offset: int64(page-1) * int64(size),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo list members", "error", err)
			return nil, goerror.NewInternal(err)
		}

		return &MemberListOutput{Page: page, Size: size, Total: total, Members: members}, nil
	})
}
