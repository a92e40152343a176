package services

import (
	"errors"
	"fmt"
)

// Domain errors reported by the membership engine and repayment calculator.
// Handlers map these to HTTP status codes; persistence errors from GORM
// propagate unchanged.
var (
	ErrProfileNotFound     = errors.New("member profile not found")
	ErrUpgradeNotFound     = errors.New("class upgrade not found")
	ErrRequestNotFound     = errors.New("assistance request not found")
	ErrRequestNotPending   = errors.New("assistance request is not pending")
	ErrInvalidUpgrade      = errors.New("target class must rank above the current class")
	ErrUpgradeConflict     = errors.New("a pending class upgrade already exists")
	ErrInvalidInstallments = errors.New("installments must be between 1 and 12")
)

// IneligibleError reports a failed eligibility check with the specific
// reason the member cannot request assistance
type IneligibleError struct {
	Reason  string
	Message string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("member not eligible (%s): %s", e.Reason, e.Message)
}
