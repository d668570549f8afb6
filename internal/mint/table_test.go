package mint

import (
	"math/big"
	"testing"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestAssign_TierBoundaries(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name      string
		value     int64
		rarity    entity.Rarity
		character string
	}{
		{"last legendary roll", 4, entity.LegendaryRarity, "Aurelia the Eternal"},
		{"first rare roll", 5, entity.RareRarity, "Stormcaller"},
		{"last rare roll", 39, entity.RareRarity, "Emberwing"},
		{"first common roll", 40, entity.CommonRarity, "Thistle"},
		{"last common roll", 99, entity.CommonRarity, "Pebble"},
		{"zero", 0, entity.LegendaryRarity, "Aurelia the Eternal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rarity, character, err := table.Assign(big.NewInt(tt.value))
			assert.NoError(t, err)
			assert.Equal(t, tt.rarity, rarity)
			assert.Equal(t, tt.character, character)
		})
	}
}

func TestAssign_CharacterUsesOriginalWord(t *testing.T) {
	table := DefaultTable()

	// 12345678901234567890 mod 100 = 90 (common), mod 7 = 1
	value, _ := new(big.Int).SetString("12345678901234567890", 10)

	rarity, character, err := table.Assign(value)
	assert.NoError(t, err)
	assert.Equal(t, entity.CommonRarity, rarity)
	assert.Equal(t, "Pebble", character)
}

func TestAssign_NilWord(t *testing.T) {
	_, _, err := DefaultTable().Assign(nil)
	assert.Equal(t, ErrNoRandomWords, err)
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	_, err = NewTable([]Tier{
		{Rarity: entity.LegendaryRarity, UpperBound: 50, Characters: []string{"a"}},
		{Rarity: entity.CommonRarity, UpperBound: 50, Characters: []string{"b"}},
	})
	assert.Error(t, err)

	_, err = NewTable([]Tier{
		{Rarity: entity.LegendaryRarity, UpperBound: 5, Characters: []string{"a"}},
		{Rarity: entity.CommonRarity, UpperBound: 90, Characters: []string{"b"}},
	})
	assert.Error(t, err)

	_, err = NewTable([]Tier{
		{Rarity: entity.LegendaryRarity, UpperBound: 100, Characters: nil},
	})
	assert.Error(t, err)

	table, err := NewTable([]Tier{
		{Rarity: entity.LegendaryRarity, UpperBound: 100, Characters: []string{"a"}},
	})
	assert.NoError(t, err)
	assert.NotNil(t, table)
}
