package graph

import "codeberg.org/mutker/cpugraph/internal/errors"

const (
	ErrInvalidSize    = errors.ErrorCode("graph_invalid_size")
	ErrSurfaceInvalid = errors.ErrorCode("graph_surface_invalid")
)
