package policy

import "errors"

var (
	// ErrUnrecognizedAction marks a rule-table gap: the action has no entry
	// for the resource kind. It is a configuration defect, not a denial reason.
	ErrUnrecognizedAction = errors.New("policy: unrecognized action")
	// ErrUnknownResource marks a nil or unsupported resource snapshot.
	ErrUnknownResource = errors.New("policy: unknown resource")
)
