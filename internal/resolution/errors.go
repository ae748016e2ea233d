package resolution

import "errors"

var errPanic = errors.New("lookup panicked")
