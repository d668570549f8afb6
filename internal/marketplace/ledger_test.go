package marketplace

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ZilDuck/nft-market-ledger/internal/ownership"
	"github.com/ZilDuck/nft-market-ledger/internal/payment"
	"github.com/stretchr/testify/assert"
)

const (
	contract = "0xcollection"
	tokenId  = uint64(1)
	alice    = "0xalice"
	bob      = "0xbob"
)

type ownershipStub struct {
	owner    string
	approved bool
	transfer func(contract string, tokenId uint64, from, to string) error
}

func (s *ownershipStub) OwnerOf(contract string, tokenId uint64) (string, error) {
	if s.owner == "" {
		return "", ownership.ErrAssetNotFound
	}
	return s.owner, nil
}

func (s *ownershipStub) IsApproved(contract string, tokenId uint64) (bool, error) {
	return s.approved, nil
}

func (s *ownershipStub) Transfer(contract string, tokenId uint64, from, to string) error {
	if s.transfer != nil {
		return s.transfer(contract, tokenId, from, to)
	}
	s.owner = to
	s.approved = false
	return nil
}

func (s *ownershipStub) Mint(contract string, tokenId uint64, owner string) error {
	s.owner = owner
	return nil
}

func (s *ownershipStub) Approve(contract string, tokenId uint64) error {
	s.approved = true
	return nil
}

type railStub struct {
	push func(to string, amount *big.Int) error
}

func (r *railStub) Push(to string, amount *big.Int) error {
	if r.push != nil {
		return r.push(to, amount)
	}
	return nil
}

func newRegistryWithAsset(t *testing.T) *ownership.Registry {
	registry := ownership.NewRegistry()
	assert.NoError(t, registry.Mint(contract, tokenId, alice))
	assert.NoError(t, registry.Approve(contract, tokenId))

	return registry
}

func TestList(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	err := ledger.List(contract, tokenId, big.NewInt(100), alice)
	assert.NoError(t, err)

	listing, ok := ledger.GetListing(contract, tokenId)
	assert.True(t, ok)
	assert.Equal(t, alice, listing.Seller)
	assert.Equal(t, big.NewInt(100), listing.Price)
}

func TestList_AlreadyListed(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err := ledger.List(contract, tokenId, big.NewInt(200), alice)
	assert.Equal(t, ErrAlreadyListed, err)

	listing, _ := ledger.GetListing(contract, tokenId)
	assert.Equal(t, big.NewInt(100), listing.Price)
}

func TestList_Guards(t *testing.T) {
	registry := newRegistryWithAsset(t)
	ledger := NewLedger(registry, payment.NewBank())

	err := ledger.List(contract, tokenId, big.NewInt(100), bob)
	assert.Equal(t, ErrNotOwner, err)

	err = ledger.List(contract, tokenId, big.NewInt(0), alice)
	assert.Equal(t, ErrPriceMustBeAboveZero, err)

	err = ledger.List(contract, tokenId, nil, alice)
	assert.Equal(t, ErrPriceMustBeAboveZero, err)

	err = ledger.List(contract, 99, big.NewInt(100), alice)
	assert.Equal(t, ownership.ErrAssetNotFound, err)
}

func TestList_NotApproved(t *testing.T) {
	registry := ownership.NewRegistry()
	assert.NoError(t, registry.Mint(contract, tokenId, alice))
	ledger := NewLedger(registry, payment.NewBank())

	err := ledger.List(contract, tokenId, big.NewInt(100), alice)
	assert.Equal(t, ErrNotApprovedForMarketplace, err)
}

func TestBuy(t *testing.T) {
	registry := newRegistryWithAsset(t)
	ledger := NewLedger(registry, payment.NewBank())

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	// overpayment is kept, the full amount lands in the seller's proceeds
	err := ledger.Buy(contract, tokenId, bob, big.NewInt(150))
	assert.NoError(t, err)

	assert.Equal(t, big.NewInt(150), ledger.GetProceeds(alice))

	_, ok := ledger.GetListing(contract, tokenId)
	assert.False(t, ok)

	owner, err := registry.OwnerOf(contract, tokenId)
	assert.NoError(t, err)
	assert.Equal(t, bob, owner)

	// the transfer revoked the approval, the new owner cannot list yet
	err = ledger.List(contract, tokenId, big.NewInt(100), bob)
	assert.Equal(t, ErrNotApprovedForMarketplace, err)
}

func TestBuy_Guards(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	err := ledger.Buy(contract, tokenId, bob, big.NewInt(100))
	assert.Equal(t, ErrNotListed, err)

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err = ledger.Buy(contract, tokenId, bob, big.NewInt(99))
	assert.Equal(t, ErrPriceNotMet, err)

	err = ledger.Buy(contract, tokenId, bob, nil)
	assert.Equal(t, ErrPriceNotMet, err)

	// nothing moved
	_, ok := ledger.GetListing(contract, tokenId)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(0), ledger.GetProceeds(alice))
}

func TestBuy_TransferFailureRollsBack(t *testing.T) {
	assets := &ownershipStub{owner: alice, approved: true, transfer: func(string, uint64, string, string) error {
		return errors.New("transfer rejected")
	}}
	ledger := NewLedger(assets, payment.NewBank())

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err := ledger.Buy(contract, tokenId, bob, big.NewInt(100))
	assert.Error(t, err)

	listing, ok := ledger.GetListing(contract, tokenId)
	assert.True(t, ok)
	assert.Equal(t, alice, listing.Seller)
	assert.Equal(t, big.NewInt(0), ledger.GetProceeds(alice))
}

func TestBuy_ReentrantTransferSeesCommittedState(t *testing.T) {
	assets := &ownershipStub{owner: alice, approved: true}
	ledger := NewLedger(assets, payment.NewBank())

	var reentrantErr error
	assets.transfer = func(string, uint64, string, string) error {
		// a hook re-entering during the transfer must find the listing gone
		reentrantErr = ledger.Buy(contract, tokenId, "0xmallory", big.NewInt(100))
		return nil
	}

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.Buy(contract, tokenId, bob, big.NewInt(100)))

	assert.Equal(t, ErrNotListed, reentrantErr)
	assert.Equal(t, big.NewInt(100), ledger.GetProceeds(alice))
}

func TestBuy_TransferFailureAfterReentrantWithdraw(t *testing.T) {
	assets := &ownershipStub{owner: alice, approved: true}
	bank := payment.NewBank()
	ledger := NewLedger(assets, bank)

	// the hook drains the just-credited proceeds, then the transfer fails
	assets.transfer = func(string, uint64, string, string) error {
		amount, err := ledger.Withdraw(alice)
		assert.NoError(t, err)
		assert.Equal(t, big.NewInt(100), amount)
		return errors.New("transfer rejected")
	}

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err := ledger.Buy(contract, tokenId, bob, big.NewInt(100))
	assert.Error(t, err)

	// the payout already left on the rail; the rollback must not drive the
	// entry negative
	assert.Equal(t, big.NewInt(100), bank.BalanceOf(alice))
	assert.Equal(t, 0, ledger.GetProceeds(alice).Sign())

	listing, ok := ledger.GetListing(contract, tokenId)
	assert.True(t, ok)
	assert.Equal(t, alice, listing.Seller)
}

func TestCancel(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.Cancel(contract, tokenId, alice))

	_, ok := ledger.GetListing(contract, tokenId)
	assert.False(t, ok)
}

func TestCancel_Guards(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	err := ledger.Cancel(contract, tokenId, alice)
	assert.Equal(t, ErrNotListed, err)

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err = ledger.Cancel(contract, tokenId, bob)
	assert.Equal(t, ErrNotOwner, err)

	_, ok := ledger.GetListing(contract, tokenId)
	assert.True(t, ok)
}

func TestUpdatePrice(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.UpdatePrice(contract, tokenId, alice, big.NewInt(250)))

	listing, _ := ledger.GetListing(contract, tokenId)
	assert.Equal(t, big.NewInt(250), listing.Price)
}

func TestUpdatePrice_Guards(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	err := ledger.UpdatePrice(contract, tokenId, alice, big.NewInt(250))
	assert.Equal(t, ErrNotListed, err)

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))

	err = ledger.UpdatePrice(contract, tokenId, bob, big.NewInt(250))
	assert.Equal(t, ErrNotOwner, err)

	err = ledger.UpdatePrice(contract, tokenId, alice, big.NewInt(0))
	assert.Equal(t, ErrPriceMustBeAboveZero, err)

	listing, _ := ledger.GetListing(contract, tokenId)
	assert.Equal(t, big.NewInt(100), listing.Price)
}

func TestWithdraw(t *testing.T) {
	bank := payment.NewBank()
	ledger := NewLedger(newRegistryWithAsset(t), bank)

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.Buy(contract, tokenId, bob, big.NewInt(100)))

	amount, err := ledger.Withdraw(alice)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(100), amount)
	assert.Equal(t, big.NewInt(100), bank.BalanceOf(alice))
	assert.Equal(t, big.NewInt(0), ledger.GetProceeds(alice))

	_, err = ledger.Withdraw(alice)
	assert.Equal(t, ErrNoProceeds, err)
}

func TestWithdraw_NoProceeds(t *testing.T) {
	ledger := NewLedger(newRegistryWithAsset(t), payment.NewBank())

	_, err := ledger.Withdraw(alice)
	assert.Equal(t, ErrNoProceeds, err)
}

func TestWithdraw_BalanceZeroedBeforePayout(t *testing.T) {
	assets := &ownershipStub{owner: alice, approved: true}
	rail := &railStub{}
	ledger := NewLedger(assets, rail)

	var seenDuringPush *big.Int
	rail.push = func(to string, amount *big.Int) error {
		seenDuringPush = ledger.GetProceeds(to)
		return nil
	}

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.Buy(contract, tokenId, bob, big.NewInt(100)))

	_, err := ledger.Withdraw(alice)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(0), seenDuringPush)
}

func TestWithdraw_PayoutFailureDoesNotRestore(t *testing.T) {
	assets := &ownershipStub{owner: alice, approved: true}
	rail := &railStub{push: func(string, *big.Int) error {
		return errors.New("rail down")
	}}
	ledger := NewLedger(assets, rail)

	assert.NoError(t, ledger.List(contract, tokenId, big.NewInt(100), alice))
	assert.NoError(t, ledger.Buy(contract, tokenId, bob, big.NewInt(100)))

	_, err := ledger.Withdraw(alice)
	assert.Equal(t, ErrTransferFailed, err)

	// the balance stays zeroed, a failed payout is not retryable
	assert.Equal(t, big.NewInt(0), ledger.GetProceeds(alice))
}
