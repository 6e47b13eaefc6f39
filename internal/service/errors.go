package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownTab      = errors.New("unknown tab")
	ErrUnknownItem     = errors.New("unknown store item")
)
