package bank

import (
	"errors"
	"fmt"
)

// ErrNoDataReturned is matched by every *NoDataError.
var ErrNoDataReturned = errors.New("no data returned")

// ErrAccountNotFound is returned when an account number is not in the listing.
var ErrAccountNotFound = errors.New("account not found")

// NoDataError reports a successful response whose expected payload was null or absent.
type NoDataError struct {
	Op string
}

func (e *NoDataError) Error() string { return fmt.Sprintf("%s: %v", e.Op, ErrNoDataReturned) }

func (e *NoDataError) Is(target error) bool { return target == ErrNoDataReturned }

func noData(op string) error { return &NoDataError{Op: op} }
