// Package services defines the business logic of the report bot: submitting
// quantities, rendering daily/monthly/cross-user summaries, the two-step
// record deletion, and the admin actions. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages is performed at the bot handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is returned when the quantity step receives text that
	// is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrQuantityNotInteger wraps ErrInvalidQuantity for text that does not
	// parse as an integer at all.
	ErrQuantityNotInteger = fmt.Errorf("%w: not an integer", ErrInvalidQuantity)

	// ErrQuantityNotPositive wraps ErrInvalidQuantity for zero or negative
	// integers.
	ErrQuantityNotPositive = fmt.Errorf("%w: not positive", ErrInvalidQuantity)

	// ErrNoActiveSession is returned when a quantity arrives but the user has
	// no session awaiting one, e.g. after a completed or quit flow.
	ErrNoActiveSession = errors.New("no active session awaiting quantity")

	// ErrNotAdmin is returned when a non-admin invokes an admin operation.
	ErrNotAdmin = errors.New("user is not an administrator")

	// ErrRecordNotFound indicates that a delete request matched no store row
	// owned by the requesting user.
	ErrRecordNotFound = errors.New("record not found")
)
