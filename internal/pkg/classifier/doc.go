// Package classifier turns any error raised while serving a request into
// exactly one ErrorResponse.
//
// A Registry maps goerror tags to handlers. Classify dispatches to the most
// specific registered tag, walking up the tag tree to the mandatory catch-all
// registered for goerror.Any.
package classifier
