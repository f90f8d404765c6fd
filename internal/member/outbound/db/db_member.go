package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gatekeep/internal/member/entity"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

const memberColumns = `id, name, email, age, tags, city, zip, created_at, updated_at`

const memberFilter = `
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
  AND ($2 = '' OR $2 = ANY(tags))`

func scanMember(row pgx.Row) (*entity.Member, error) {
	var m entity.Member
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Age, &m.Tags,
		&m.Address.City, &m.Address.Zip, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return &m, nil
}

func (s *DB) GetMemberByID(ctx context.Context, id int64) (m *entity.Member, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberByID")
	defer func() { s.endSpan(span, err) }()

	m, err = scanMember(s.conn.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	return m, s.mapError(err)
}

func (s *DB) GetMemberByEmail(ctx context.Context, email string) (m *entity.Member, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberByEmail")
	defer func() { s.endSpan(span, err) }()

	m, err = scanMember(s.conn.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email))
	return m, s.mapError(err)
}

func (s *DB) ListMembers(ctx context.Context, filter entity.MemberListFilter) (ms []entity.Member, total int64, err error) {
	ctx, span := s.startSpan(ctx, "ListMembers")
	defer func() { s.endSpan(span, err) }()

	if err = s.conn.QueryRow(ctx, `SELECT count(*) FROM members`+memberFilter,
		filter.Search, filter.Tag).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, `SELECT `+memberColumns+` FROM members`+memberFilter+`
ORDER BY id LIMIT $3 OFFSET $4`, filter.Search, filter.Tag, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	ms, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Member, error) {
		m, err := scanMember(row)
		if err != nil {
			return entity.Member{}, err
		}
		return *m, nil
	})
	return ms, total, s.mapError(err)
}

func (s *DB) CreateMember(ctx context.Context, m entity.Member) (err error) {
	ctx, span := s.startSpan(ctx, "CreateMember")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `INSERT INTO members (`+memberColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Name, m.Email, m.Age, nonNil(m.Tags), m.Address.City, m.Address.Zip, m.CreatedAt, m.UpdatedAt)
	return s.mapError(err)
}

func (s *DB) UpdateMember(ctx context.Context, m entity.Member) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateMember")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE members
SET name = $2, email = $3, age = $4, tags = $5, city = $6, zip = $7, updated_at = $8
WHERE id = $1`,
		m.ID, m.Name, m.Email, m.Age, nonNil(m.Tags), m.Address.City, m.Address.Zip, m.UpdatedAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func (s *DB) DeleteMember(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteMember")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
