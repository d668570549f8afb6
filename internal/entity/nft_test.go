package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataUri(t *testing.T) {
	tests := []struct {
		name     string
		tokenUri string
		expected string
		hasError bool
	}{
		{
			name:     "ipfs uri passes through",
			tokenUri: "ipfs://QmYxkzV5cHhdpMhLfCAQJXRGv6zJt5ePoRcZvNqrUmVxLw/1.json",
			expected: "ipfs://QmYxkzV5cHhdpMhLfCAQJXRGv6zJt5ePoRcZvNqrUmVxLw/1.json",
		},
		{
			name:     "gateway uri is rewritten to ipfs",
			tokenUri: "https://gateway.pinata.cloud/ipfs/QmYxkzV5cHhdpMhLfCAQJXRGv6zJt5ePoRcZvNqrUmVxLw",
			expected: "ipfs://QmYxkzV5cHhdpMhLfCAQJXRGv6zJt5ePoRcZvNqrUmVxLw",
		},
		{
			name:     "plain http uri passes through",
			tokenUri: "https://example.com/metadata/1.json",
			expected: "https://example.com/metadata/1.json",
		},
		{
			name:     "empty uri",
			tokenUri: "",
			hasError: true,
		},
		{
			name:     "garbage uri",
			tokenUri: "not-a-uri",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nft := Nft{Contract: "0xcollection", TokenId: 1, TokenUri: tt.tokenUri}

			uri, err := nft.MetadataUri()
			if tt.hasError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, uri)
		})
	}
}

func TestNftSlug(t *testing.T) {
	nft := Nft{Contract: "0xCollection", TokenId: 42}
	assert.Equal(t, "nft-42-0xcollection", nft.Slug())
}
