package engine

import "errors"

// Domain errors. Every one of them leaves the state untouched.
var (
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrMaxTierReached    = errors.New("automation is already at max level")
	ErrInvalidCode       = errors.New("invalid code")
	ErrCodeAlreadyUsed   = errors.New("code already used")
	ErrEmptyCode         = errors.New("please enter a code")
	ErrUnknownProducer   = errors.New("unknown producer type")
	ErrInvalidPrice      = errors.New("price cannot be negative")
	ErrEmptyName         = errors.New("player name cannot be empty")
)
