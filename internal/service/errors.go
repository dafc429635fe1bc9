package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrInvalidTTL      = errors.New("ttl out of range")
	ErrPayloadTooLarge = errors.New("payload too large")
)
