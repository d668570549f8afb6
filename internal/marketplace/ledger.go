package marketplace

import (
	"math/big"
	"sync"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/ZilDuck/nft-market-ledger/internal/event"
	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/payment"
	"go.uber.org/zap"
)

type Ledger interface {
	List(contract string, tokenId uint64, price *big.Int, caller string) error
	Buy(contract string, tokenId uint64, caller string, paymentAmount *big.Int) error
	Cancel(contract string, tokenId uint64, caller string) error
	UpdatePrice(contract string, tokenId uint64, caller string, newPrice *big.Int) error
	Withdraw(caller string) (*big.Int, error)
	GetListing(contract string, tokenId uint64) (entity.Listing, bool)
	GetProceeds(seller string) *big.Int
}

type assetKey struct {
	contract string
	tokenId  uint64
}

// ledger is the single-writer listing and proceeds store. The mutex covers
// every state mutation; calls out to the ownership oracle and the payment
// rail happen outside the critical section so a re-entering collaborator
// observes committed state instead of deadlocking.
type ledger struct {
	mu        sync.Mutex
	listings  map[assetKey]entity.Listing
	proceeds  map[string]*big.Int
	ownership ownership.Service
	payments  payment.Rail
}

func NewLedger(ownershipService ownership.Service, payments payment.Rail) Ledger {
	return &ledger{
		listings:  make(map[assetKey]entity.Listing),
		proceeds:  make(map[string]*big.Int),
		ownership: ownershipService,
		payments:  payments,
	}
}

func (l *ledger) List(contract string, tokenId uint64, price *big.Int, caller string) error {
	key := assetKey{contract, tokenId}

	l.mu.Lock()
	_, listed := l.listings[key]
	l.mu.Unlock()
	if listed {
		return ErrAlreadyListed
	}

	owner, err := l.ownership.OwnerOf(contract, tokenId)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}

	if price == nil || price.Sign() <= 0 {
		return ErrPriceMustBeAboveZero
	}

	approved, err := l.ownership.IsApproved(contract, tokenId)
	if err != nil {
		return err
	}
	if !approved {
		return ErrNotApprovedForMarketplace
	}

	listing := entity.Listing{
		Contract: contract,
		TokenId:  tokenId,
		Price:    new(big.Int).Set(price),
		Seller:   caller,
	}

	l.mu.Lock()
	if _, ok := l.listings[key]; ok {
		l.mu.Unlock()
		return ErrAlreadyListed
	}
	l.listings[key] = listing
	l.mu.Unlock()

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", caller),
		zap.String("price", price.String()),
	).Info("Marketplace listing")

	event.EmitEvent(event.ListedEvent, listing)

	return nil
}

func (l *ledger) Buy(contract string, tokenId uint64, caller string, paymentAmount *big.Int) error {
	key := assetKey{contract, tokenId}

	l.mu.Lock()
	listing, ok := l.listings[key]
	if !ok {
		l.mu.Unlock()
		return ErrNotListed
	}
	if paymentAmount == nil || paymentAmount.Cmp(listing.Price) < 0 {
		l.mu.Unlock()
		return ErrPriceNotMet
	}

	// Credit the seller with the FULL payment (excess is a donation) and
	// drop the listing BEFORE the ownership transfer. A transfer hook that
	// re-enters must find the listing already gone.
	l.proceeds[listing.Seller] = new(big.Int).Add(l.currentProceeds(listing.Seller), paymentAmount)
	delete(l.listings, key)
	l.mu.Unlock()

	if err := l.ownership.Transfer(contract, tokenId, listing.Seller, caller); err != nil {
		zap.L().With(
			zap.String("contract", contract),
			zap.Uint64("tokenId", tokenId),
			zap.Error(err),
		).Error("Marketplace sale: asset transfer failed")

		// a hook may have withdrawn the credit before the transfer failed;
		// the payout already left on the rail, so the entry clamps at zero
		// instead of going negative
		l.mu.Lock()
		remaining := new(big.Int).Sub(l.currentProceeds(listing.Seller), paymentAmount)
		if remaining.Sign() < 0 {
			zap.L().With(
				zap.String("seller", listing.Seller),
				zap.String("missing", new(big.Int).Neg(remaining).String()),
			).Warn("Marketplace sale: rollback found proceeds already withdrawn")
			remaining = big.NewInt(0)
		}
		l.proceeds[listing.Seller] = remaining
		l.listings[key] = listing
		l.mu.Unlock()

		return err
	}

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("from", listing.Seller),
		zap.String("to", caller),
		zap.String("cost", paymentAmount.String()),
	).Info("Marketplace sale")

	event.EmitEvent(event.BoughtEvent, entity.Sale{
		Contract: contract,
		TokenId:  tokenId,
		Buyer:    caller,
		Seller:   listing.Seller,
		Cost:     new(big.Int).Set(paymentAmount),
	})

	return nil
}

func (l *ledger) Cancel(contract string, tokenId uint64, caller string) error {
	owner, err := l.ownership.OwnerOf(contract, tokenId)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}

	key := assetKey{contract, tokenId}

	l.mu.Lock()
	listing, ok := l.listings[key]
	if !ok {
		l.mu.Unlock()
		return ErrNotListed
	}
	delete(l.listings, key)
	l.mu.Unlock()

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", listing.Seller),
	).Info("Marketplace delisting")

	event.EmitEvent(event.CanceledEvent, listing)

	return nil
}

func (l *ledger) UpdatePrice(contract string, tokenId uint64, caller string, newPrice *big.Int) error {
	key := assetKey{contract, tokenId}

	l.mu.Lock()
	_, ok := l.listings[key]
	l.mu.Unlock()
	if !ok {
		return ErrNotListed
	}

	owner, err := l.ownership.OwnerOf(contract, tokenId)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}

	if newPrice == nil || newPrice.Sign() <= 0 {
		return ErrPriceMustBeAboveZero
	}

	l.mu.Lock()
	listing, ok := l.listings[key]
	if !ok {
		l.mu.Unlock()
		return ErrNotListed
	}
	listing.Price = new(big.Int).Set(newPrice)
	l.listings[key] = listing
	l.mu.Unlock()

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", listing.Seller),
		zap.String("price", newPrice.String()),
	).Info("Marketplace listing updated")

	// re-listing semantics: an updated price is announced as a fresh listing
	event.EmitEvent(event.ListedEvent, listing)

	return nil
}

func (l *ledger) Withdraw(caller string) (*big.Int, error) {
	l.mu.Lock()
	balance := l.currentProceeds(caller)
	if balance.Sign() == 0 {
		l.mu.Unlock()
		return nil, ErrNoProceeds
	}

	// The balance is zeroed before the payout attempt and is NOT restored
	// if the push fails. Ledger consistency wins over retryability.
	amount := new(big.Int).Set(balance)
	l.proceeds[caller] = big.NewInt(0)
	l.mu.Unlock()

	if err := l.payments.Push(caller, amount); err != nil {
		zap.L().With(
			zap.String("seller", caller),
			zap.String("amount", amount.String()),
			zap.Error(err),
		).Error("Marketplace withdrawal: payout failed")
		return nil, ErrTransferFailed
	}

	zap.L().With(
		zap.String("seller", caller),
		zap.String("amount", amount.String()),
	).Info("Marketplace withdrawal")

	event.EmitEvent(event.WithdrawnEvent, entity.Withdrawal{
		Seller: caller,
		Amount: amount,
	})

	return amount, nil
}

func (l *ledger) GetListing(contract string, tokenId uint64) (entity.Listing, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	listing, ok := l.listings[assetKey{contract, tokenId}]

	return listing, ok
}

func (l *ledger) GetProceeds(seller string) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return new(big.Int).Set(l.currentProceeds(seller))
}

// currentProceeds must be called with the lock held.
func (l *ledger) currentProceeds(seller string) *big.Int {
	balance, ok := l.proceeds[seller]
	if !ok {
		return big.NewInt(0)
	}

	return balance
}
