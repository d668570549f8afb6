package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.OwnerOf("0xcollection", 1)
	assert.Equal(t, ErrAssetNotFound, err)

	assert.NoError(t, registry.Mint("0xcollection", 1, "0xalice"))
	assert.Error(t, registry.Mint("0xcollection", 1, "0xbob"))

	owner, err := registry.OwnerOf("0xcollection", 1)
	assert.NoError(t, err)
	assert.Equal(t, "0xalice", owner)

	approved, err := registry.IsApproved("0xcollection", 1)
	assert.NoError(t, err)
	assert.False(t, approved)

	assert.NoError(t, registry.Approve("0xcollection", 1))
	approved, _ = registry.IsApproved("0xcollection", 1)
	assert.True(t, approved)
}

func TestRegistry_Transfer(t *testing.T) {
	registry := NewRegistry()
	assert.NoError(t, registry.Mint("0xcollection", 1, "0xalice"))
	assert.NoError(t, registry.Approve("0xcollection", 1))

	err := registry.Transfer("0xcollection", 1, "0xbob", "0xcarol")
	assert.Equal(t, ErrNotOwner, err)

	err = registry.Transfer("0xcollection", 2, "0xalice", "0xbob")
	assert.Equal(t, ErrAssetNotFound, err)

	assert.NoError(t, registry.Transfer("0xcollection", 1, "0xalice", "0xbob"))

	owner, _ := registry.OwnerOf("0xcollection", 1)
	assert.Equal(t, "0xbob", owner)

	// approvals do not follow the asset
	approved, _ := registry.IsApproved("0xcollection", 1)
	assert.False(t, approved)
}
