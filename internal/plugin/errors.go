package plugin

import "codeberg.org/mutker/cpugraph/internal/errors"

const (
	ErrUnknownClass   = errors.ErrorCode("plugin_unknown_class")
	ErrDuplicateClass = errors.ErrorCode("plugin_duplicate_class")
	ErrInvalidClass   = errors.ErrorCode("plugin_invalid_class")
)
