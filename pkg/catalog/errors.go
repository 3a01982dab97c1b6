package catalog

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("already exists in my prompts")
	ErrProtectedTopic = errors.New("topic is protected")
)
