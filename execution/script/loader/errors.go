package loader

import "errors"

var (
	ErrSchemeUnsupported  = errors.New("unsupported scheme")
	ErrScriptNotAvailable = errors.New("script not available")
	ErrInvalidName        = errors.New("invalid resource name")
	ErrInputEmpty         = errors.New("input is empty")
)
