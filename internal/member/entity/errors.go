package entity

import "github.com/shandysiswandi/gatekeep/internal/pkg/goerror"

// MemberEmailTaken is raised when another member already uses the email.
var MemberEmailTaken = goerror.Conflict.Specialize("MemberEmailTaken",
	goerror.WithDefaultMessage("Member with that email already exists"))
