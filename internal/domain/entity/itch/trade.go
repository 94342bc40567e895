package itch

// TradeMessage ('P') reports a non-cross execution against a non-displayed
// order; it does not correspond to an order already on the book and carries
// no order-book side effect beyond a match record.
type TradeMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	BuySellIndicator     Side
	Shares               uint32
	Stock                Symbol
	Price                Price
	MatchNumber          uint64
}

func (m TradeMessage) Header() MessageHeader { return m.MessageHeader }
func (m TradeMessage) Tag() byte { return TagTrade }

// CrossTradeMessage ('Q') reports the result of a cross (e.g. opening,
// closing, halt, or IPO cross).
type CrossTradeMessage struct {
	MessageHeader
	Shares      uint64
	Stock       Symbol
	CrossPrice  Price
	MatchNumber uint64
	CrossType   byte
}

func (m CrossTradeMessage) Header() MessageHeader { return m.MessageHeader }
func (m CrossTradeMessage) Tag() byte { return TagCrossTrade }

// BrokenTradeMessage ('B') voids a previously reported trade or cross,
// identified by its match number.
type BrokenTradeMessage struct {
	MessageHeader
	MatchNumber uint64
}

func (m BrokenTradeMessage) Header() MessageHeader { return m.MessageHeader }
func (m BrokenTradeMessage) Tag() byte { return TagBrokenTrade }

// NOIIMessage ('I') reports the Net Order Imbalance Indicator ahead of an
// auction.
type NOIIMessage struct {
	MessageHeader
	PairedShares            uint64
	ImbalanceShares         uint64
	ImbalanceDirection      byte
	Stock                   Symbol
	FarPrice                Price
	NearPrice               Price
	CurrentReferencePrice   Price
	CrossType               byte
	PriceVariationIndicator byte
}

func (m NOIIMessage) Header() MessageHeader { return m.MessageHeader }
func (m NOIIMessage) Tag() byte { return TagNOII }

// RPIIMessage ('N') announces Retail Price Improvement interest on a
// symbol's bid, offer, or both ('B', 'A', 'N' none, or combinations).
type RPIIMessage struct {
	MessageHeader
	Stock        Symbol
	InterestFlag byte
}

func (m RPIIMessage) Header() MessageHeader { return m.MessageHeader }
func (m RPIIMessage) Tag() byte { return TagRPII }

// DirectListingCapitalRaiseMessage ('O') announces Direct Listing with
// Capital Raise price discovery parameters.
type DirectListingCapitalRaiseMessage struct {
	MessageHeader
	Stock                 Symbol
	OpenEligibilityStatus byte
	MinimumAllowablePrice Price
	MaximumAllowablePrice Price
	NearExecutionPrice    Price
	NearExecutionTime     uint64
	LowerPriceRangeCollar Price
	UpperPriceRangeCollar Price
}

func (m DirectListingCapitalRaiseMessage) Header() MessageHeader { return m.MessageHeader }
func (m DirectListingCapitalRaiseMessage) Tag() byte { return TagDirectListingCapitalRaise }
