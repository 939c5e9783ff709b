package script

import "errors"

var ErrContentNil = errors.New("script reader is nil")
