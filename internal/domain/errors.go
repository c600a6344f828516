package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownTicker     = errors.New("unknown ticker")
	ErrNoLiquidity       = errors.New("no liquidity")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidTransition = errors.New("invalid state transition")
)
