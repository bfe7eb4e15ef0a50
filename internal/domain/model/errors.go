package model

import "errors"

// Sentinel errors shared by the domain and application layers. Callers
// match them with errors.Is; wrapping adds context.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInsufficientCredit     = errors.New("insufficient credit limit")
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")
)
