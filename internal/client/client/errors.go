package client

import "errors"

var (
	ErrUnavailable  = errors.New("mirror unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSnapshot   = errors.New("no snapshot on mirror")
)
