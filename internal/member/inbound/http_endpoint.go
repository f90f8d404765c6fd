package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/member/usecase"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) MemberList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.MemberList(r.Context(), usecase.MemberListInput{
		Search: r.GetQuery("search"),
		Tag:    r.GetQuery("tag"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	return MembersResponse{
		Members: lo.Map(resp.Members, func(m entity.Member, _ int) MemberResponse { return toMemberResponse(m) }),
		page:    resp.Page,
		size:    resp.Size,
		total:   resp.Total,
	}, nil
}

func (h *HTTPEndpoint) MemberDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	member, err := h.uc.MemberGet(r.Context(), usecase.MemberGetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toMemberResponse(*member), nil
}

func (h *HTTPEndpoint) MemberCreate(r *router.Request) (any, error) {
	var req MemberCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	member, err := h.uc.MemberCreate(r.Context(), usecase.MemberCreateInput{
		Name:           req.Name,
		Email:          req.Email,
		Age:            req.Age,
		Tags:           req.Tags,
		Address:        req.Address.input(),
		IdempotencyKey: r.Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return MemberCreateResponse{MemberResponse: toMemberResponse(*member)}, nil
}

func (h *HTTPEndpoint) MemberUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req MemberUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	member, err := h.uc.MemberUpdate(r.Context(), usecase.MemberUpdateInput{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Age:     req.Age,
		Tags:    req.Tags,
		Address: req.Address.input(),
	})
	if err != nil {
		return nil, err
	}

	return toMemberResponse(*member), nil
}

func (h *HTTPEndpoint) MemberDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.MemberDelete(r.Context(), usecase.MemberDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}
