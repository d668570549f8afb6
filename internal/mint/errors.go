package mint

import "errors"

var (
	ErrNoMoreFreeMints = errors.New("no more free mints")
	ErrMintFeeNotMet   = errors.New("mint fee not met")
	ErrRangeOutOfBound = errors.New("rarity range out of bound")
	ErrUnknownRequest  = errors.New("unknown or already resolved request")
	ErrNoRandomWords   = errors.New("no random words supplied")
)
