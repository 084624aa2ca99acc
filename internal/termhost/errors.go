package termhost

import "codeberg.org/mutker/cpugraph/internal/errors"

const (
	ErrNoPlugin  = errors.ErrorCode("termhost_no_plugin")
	ErrRunFailed = errors.ErrorCode("termhost_run_failed")
)
