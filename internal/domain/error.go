package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrUnauthorized    = errors.New("actor is not the configured admin")
	ErrEmptyPayload    = errors.New("broadcast payload is empty")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrQueueFull       = errors.New("worker queue full")
)
