package applet

import "codeberg.org/mutker/cpugraph/internal/errors"

const (
	ErrInvalidConfig = errors.ErrorCode("applet_invalid_config")
	ErrNoHost        = errors.ErrorCode("applet_no_host")
)
