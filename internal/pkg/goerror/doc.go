// Package goerror defines the error conditions raised across the application.
//
// Every *Error carries a Tag. Tags form a tree rooted at Any, so a handler
// registered for a tag also serves its specializations:
//
//	var EmailTaken = goerror.Conflict.Specialize("MemberEmailTaken")
//
//	return goerror.New(EmailTaken, "Email is already registered")
package goerror
