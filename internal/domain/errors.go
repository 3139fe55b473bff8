package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource conflict")
	ErrDuplicateRequest  = errors.New("duplicate client request")
	ErrInvalidInput      = errors.New("invalid input")
	ErrCooldownActive    = errors.New("rapid check-in cooldown active")
	ErrDailyLimitReached = errors.New("daily rapid check-in limit reached")
	ErrSessionExpired    = errors.New("rapid session expired")
)
