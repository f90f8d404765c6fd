package entity

import "time"

type Address struct {
	City string
	Zip  string
}

type Member struct {
	ID        int64
	Name      string
	Email     string
	Age       int
	Tags      []string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MemberListFilter struct {
	Search string // matched against name and email, case-insensitive
	Tag    string
	Limit  int32
	Offset int64
}
