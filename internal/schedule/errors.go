package schedule

import "codeberg.org/mutker/cpugraph/internal/errors"

const ErrInvalidInterval = errors.ErrorCode("schedule_invalid_interval")
