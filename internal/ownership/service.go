package ownership

import (
	"errors"
	"sync"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNotOwner      = errors.New("caller is not the asset owner")
)

// Service is the ownership/approval oracle. The ledger never caches what it
// returns; every check is a live query.
type Service interface {
	OwnerOf(contract string, tokenId uint64) (string, error)
	IsApproved(contract string, tokenId uint64) (bool, error)
	Transfer(contract string, tokenId uint64, from, to string) error
	Mint(contract string, tokenId uint64, owner string) error
	Approve(contract string, tokenId uint64) error
}

type assetKey struct {
	contract string
	tokenId  uint64
}

// Registry is the in-process ownership authority used when no remote oracle
// is configured.
type Registry struct {
	mu        sync.Mutex
	owners    map[assetKey]string
	approvals map[assetKey]bool
}

func NewRegistry() *Registry {
	return &Registry{
		owners:    make(map[assetKey]string),
		approvals: make(map[assetKey]bool),
	}
}

func (r *Registry) OwnerOf(contract string, tokenId uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[assetKey{contract, tokenId}]
	if !ok {
		return "", ErrAssetNotFound
	}

	return owner, nil
}

func (r *Registry) IsApproved(contract string, tokenId uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[assetKey{contract, tokenId}]; !ok {
		return false, ErrAssetNotFound
	}

	return r.approvals[assetKey{contract, tokenId}], nil
}

func (r *Registry) Transfer(contract string, tokenId uint64, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assetKey{contract, tokenId}
	owner, ok := r.owners[key]
	if !ok {
		return ErrAssetNotFound
	}
	if owner != from {
		return ErrNotOwner
	}

	r.owners[key] = to
	// transfer revokes the marketplace approval, the new owner must re-approve
	r.approvals[key] = false

	return nil
}

func (r *Registry) Mint(contract string, tokenId uint64, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assetKey{contract, tokenId}
	if _, ok := r.owners[key]; ok {
		return errors.New("token id already minted")
	}

	r.owners[key] = owner

	return nil
}

func (r *Registry) Approve(contract string, tokenId uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[assetKey{contract, tokenId}]; !ok {
		return ErrAssetNotFound
	}

	r.approvals[assetKey{contract, tokenId}] = true

	return nil
}
