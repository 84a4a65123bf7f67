package tap

import "errors"

var (
	errTooLarge            = errors.New("body exceeds capture limit")
	errUnsupportedEncoding = errors.New("unsupported content encoding")
)
