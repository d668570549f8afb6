package event

type Type string

const (
	ListedEvent       Type = "ListedEvent"
	BoughtEvent       Type = "BoughtEvent"
	CanceledEvent     Type = "CanceledEvent"
	WithdrawnEvent    Type = "WithdrawnEvent"
	NftRequestedEvent Type = "NftRequestedEvent"
	NftMintedEvent    Type = "NftMintedEvent"
)
