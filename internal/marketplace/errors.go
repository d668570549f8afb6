package marketplace

import "errors"

// One sentinel per guard condition. Nothing is retried internally; every
// failure aborts the operation with no state change.
var (
	ErrPriceMustBeAboveZero      = errors.New("price must be above zero")
	ErrNotApprovedForMarketplace = errors.New("not approved for marketplace")
	ErrAlreadyListed             = errors.New("already listed")
	ErrNotOwner                  = errors.New("not owner")
	ErrNotListed                 = errors.New("not listed")
	ErrPriceNotMet               = errors.New("price not met")
	ErrNoProceeds                = errors.New("no proceeds")
	ErrTransferFailed            = errors.New("transfer failed")
)
