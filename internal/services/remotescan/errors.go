package remotescan

import "errors"

var ErrInvalidMode = errors.New("invalid scan mode")
