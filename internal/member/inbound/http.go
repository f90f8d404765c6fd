package inbound

import (
	"context"

	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/member/usecase"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
)

type uc interface {
	MemberList(ctx context.Context, in usecase.MemberListInput) (*usecase.MemberListOutput, error)
	MemberGet(ctx context.Context, in usecase.MemberGetInput) (*entity.Member, error)
	MemberCreate(ctx context.Context, in usecase.MemberCreateInput) (*entity.Member, error)
	MemberUpdate(ctx context.Context, in usecase.MemberUpdateInput) (*entity.Member, error)
	MemberDelete(ctx context.Context, in usecase.MemberDeleteInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/members", end.MemberList)
	r.GET("/api/v1/members/:id", end.MemberDetail)
	r.POST("/api/v1/members", end.MemberCreate)
	r.PUT("/api/v1/members/:id", end.MemberUpdate)
	r.DELETE("/api/v1/members/:id", end.MemberDelete)
}
