package mint

import (
	"errors"
	"math/big"

	"github.com/ZilDuck/nft-market-ledger/internal/entity"
)

const chanceTotal = 100

// Tier is one rarity bucket. UpperBound is cumulative out of chanceTotal,
// so the tier wins rolls in [previous bound, UpperBound).
type Tier struct {
	Rarity     entity.Rarity
	UpperBound int64
	Characters []string
}

// Table is the rarity table. Immutable after construction.
type Table struct {
	tiers []Tier
}

func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, errors.New("rarity table must have at least one tier")
	}

	var prev int64
	for _, tier := range tiers {
		if tier.UpperBound <= prev {
			return nil, errors.New("rarity table bounds must be strictly increasing")
		}
		if len(tier.Characters) == 0 {
			return nil, errors.New("rarity tier must have at least one character")
		}
		prev = tier.UpperBound
	}

	if prev != chanceTotal {
		return nil, errors.New("rarity table must end at the chance total")
	}

	return &Table{tiers: tiers}, nil
}

// DefaultTable is the fixed production table: 5% Legendary, 35% Rare,
// 60% Common.
func DefaultTable() *Table {
	table, err := NewTable([]Tier{
		{
			Rarity:     entity.LegendaryRarity,
			UpperBound: 5,
			Characters: []string{"Aurelia the Eternal"},
		},
		{
			Rarity:     entity.RareRarity,
			UpperBound: 40,
			Characters: []string{"Emberwing", "Frostfang", "Stormcaller"},
		},
		{
			Rarity:     entity.CommonRarity,
			UpperBound: chanceTotal,
			Characters: []string{"Mossback", "Pebble", "Quill", "Rustle", "Sootpaw", "Thistle", "Wisp"},
		},
	})
	if err != nil {
		panic(err)
	}

	return table
}

// Assign resolves one random word into a (rarity, character) pair. The roll
// is the word mod 100; the character draw reuses the ORIGINAL word mod the
// tier's character count, so one word funds both decisions. Changing that
// would break compatibility with recorded mints.
func (t *Table) Assign(value *big.Int) (entity.Rarity, string, error) {
	if value == nil {
		return "", "", ErrNoRandomWords
	}

	roll := new(big.Int).Mod(value, big.NewInt(chanceTotal)).Int64()

	for _, tier := range t.tiers {
		if roll < tier.UpperBound {
			count := big.NewInt(int64(len(tier.Characters)))
			idx := new(big.Int).Mod(value, count).Int64()
			return tier.Rarity, tier.Characters[idx], nil
		}
	}

	// unreachable with a valid table; reaching it means the bounds are
	// internally inconsistent
	return "", "", ErrRangeOutOfBound
}
