package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIncompleteDecisionSet means a resolve submission did not cover
	// every unresolved revision match for the script.
	ErrIncompleteDecisionSet = errors.New("incomplete decision set")
	// ErrInvalidDecisionForStatus means a decision value is not legal for
	// the match's status (e.g. keep on a FUZZY match).
	ErrInvalidDecisionForStatus = errors.New("invalid decision for match status")
	// ErrAlreadyResolved means a match in the submission was resolved by
	// an earlier submission.
	ErrAlreadyResolved = errors.New("match already resolved")
	// ErrConflictingMapClaims means two map decisions in one submission
	// target the same old element.
	ErrConflictingMapClaims = errors.New("conflicting map claims on one element")
)
