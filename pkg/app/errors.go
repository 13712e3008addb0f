package app

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid module configuration")
	ErrStartup       = errors.New("module startup failed")
)
