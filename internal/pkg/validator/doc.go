// Package validator evaluates declarative constraints against request and
// domain objects.
//
// Constraints are registered on a Schema by field path, imperatively or from a
// YAML schema file, and are decoupled from the validated type itself. An
// Executor built from a frozen Schema resolves each path against the object,
// runs the constraint kind's evaluator and collects Violations in
// registration order. Default messages come from an English catalog backed by
// go-playground/universal-translator.
//
// Business code should depend on the Validator interface so validation can be
// shared and tested consistently.
package validator
