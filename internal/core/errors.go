package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeUsernameTaken = "username_taken"
	ErrCodeGroupExists   = "group_exists"
	ErrCodeGroupNotFound = "group_not_found"
	ErrCodeAlreadyMember = "already_member"
	ErrCodeNotMember     = "not_member"
	ErrCodeShuttingDown  = "shutting_down"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrGroupExists   = errors.New("group exists")
	ErrGroupNotFound = errors.New("group not found")
)

// CoreError wraps a code and human-readable message. The message is the
// exact line written back to the client.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
