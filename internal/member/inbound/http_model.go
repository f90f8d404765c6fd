package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/member/usecase"
)

// HeaderIdempotencyKey makes a create request safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

type AddressRequest struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

func (a *AddressRequest) input() *usecase.AddressInput {
	if a == nil {
		return nil
	}
	return &usecase.AddressInput{City: a.City, Zip: a.Zip}
}

type MemberCreateRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Age     int             `json:"age"`
	Tags    []string        `json:"tags"`
	Address *AddressRequest `json:"address"`
}

type MemberUpdateRequest struct {
	Name    *string         `json:"name"`
	Email   *string         `json:"email"`
	Age     *int            `json:"age"`
	Tags    []string        `json:"tags"`
	Address *AddressRequest `json:"address"`
}

type AddressResponse struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type MemberResponse struct {
	ID        int64           `json:"id,string"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Age       int             `json:"age"`
	Tags      []string        `json:"tags"`
	Address   AddressResponse `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toMemberResponse(m entity.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Age:       m.Age,
		Tags:      lo.Ternary(m.Tags == nil, []string{}, m.Tags),
		Address:   AddressResponse{City: m.Address.City, Zip: m.Address.Zip},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type MemberCreateResponse struct {
	MemberResponse
}

func (MemberCreateResponse) StatusCode() int {
	return http.StatusCreated
}

func (MemberCreateResponse) Message() string {
	return "Member created"
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
	page    int32
	size    int32
	total   int64
}

func (r MembersResponse) Meta() map[string]any {
	return map[string]any{
		"page":  r.page,
		"size":  r.size,
		"total": r.total,
	}
}
