// Package memory keeps members in process memory. It reports the same
// sentinel errors as the database repository.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

type Memory struct {
	mu      sync.RWMutex
	members map[int64]entity.Member
	byEmail map[string]int64
}

func New() *Memory {
	return &Memory{
		members: make(map[int64]entity.Member),
		byEmail: make(map[string]int64),
	}
}

func clone(m entity.Member) *entity.Member {
	m.Tags = slices.Clone(m.Tags)
	return &m
}

func (s *Memory) GetMemberByID(_ context.Context, id int64) (*entity.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return clone(m), nil
}

func (s *Memory) GetMemberByEmail(_ context.Context, email string) (*entity.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return clone(s.members[id]), nil
}

func (s *Memory) ListMembers(_ context.Context, filter entity.MemberListFilter) ([]entity.Member, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := lo.Filter(lo.Values(s.members), func(m entity.Member, _ int) bool {
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) && !strings.Contains(m.Email, search) {
			return false
		}
		return filter.Tag == "" || slices.Contains(m.Tags, filter.Tag)
	})
	slices.SortFunc(matched, func(a, b entity.Member) int {
		return cmp.Compare(a.ID, b.ID)
	})

	total := int64(len(matched))
	page := lo.Subset(matched, int(min(filter.Offset, total)), uint(max(filter.Limit, 0)))

	return lo.Map(page, func(m entity.Member, _ int) entity.Member { return *clone(m) }), total, nil
}

func (s *Memory) CreateMember(_ context.Context, m entity.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[m.Email]; ok {
		return goerror.ErrConflict
	}
	if _, ok := s.members[m.ID]; ok {
		return goerror.ErrConflict
	}

	s.members[m.ID] = *clone(m)
	s.byEmail[m.Email] = m.ID
	return nil
}

func (s *Memory) UpdateMember(_ context.Context, m entity.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.members[m.ID]
	if !ok {
		return goerror.ErrNotFound
	}
	if owner, taken := s.byEmail[m.Email]; taken && owner != m.ID {
		return goerror.ErrConflict
	}

	delete(s.byEmail, prev.Email)
	s.members[m.ID] = *clone(m)
	s.byEmail[m.Email] = m.ID
	return nil
}

func (s *Memory) DeleteMember(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return goerror.ErrNotFound
	}

	delete(s.members, id)
	delete(s.byEmail, m.Email)
	return nil
}
