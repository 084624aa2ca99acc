package ring

import "codeberg.org/mutker/cpugraph/internal/errors"

const ErrInvalidCapacity = errors.ErrorCode("ring_invalid_capacity")
