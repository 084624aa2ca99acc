package pid

import "codeberg.org/mutker/cpugraph/internal/errors"

const ErrAlreadyRunning = errors.ErrorCode("pid_already_running")
