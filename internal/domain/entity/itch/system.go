package itch

// SystemEventMessage ('S') marks start/end of day, market hours, and
// emergency-market-condition transitions. EventCode values: 'O' start of
// messages, 'S' start of system hours, 'Q' start of market hours, 'M' end
// of market hours, 'E' end of system hours, 'C' end of messages, 'A'
// emergency market condition halt, 'R' emergency market condition quote
// only, 'B' emergency market condition resumption.
type SystemEventMessage struct {
	MessageHeader
	EventCode byte
}

func (m SystemEventMessage) Header() MessageHeader { return m.MessageHeader }
func (m SystemEventMessage) Tag() byte { return TagSystemEvent }

// StockDirectoryMessage ('R') announces a symbol that will appear in the
// feed, along with its static listing attributes.
type StockDirectoryMessage struct {
	MessageHeader
	Stock                       Symbol
	MarketCategory              byte
	FinancialStatusIndicator    byte
	RoundLotSize                uint32
	RoundLotsOnly               byte
	IssueClassification         byte
	IssueSubType                [2]byte
	Authenticity                byte
	ShortSaleThresholdIndicator byte
	IPOFlag                     byte
	LULDReferencePriceTier      byte
	ETPFlag                     byte
	ETPLeverageFactor           uint32
	InverseIndicator            byte
}

func (m StockDirectoryMessage) Header() MessageHeader { return m.MessageHeader }
func (m StockDirectoryMessage) Tag() byte { return TagStockDirectory }

// StockTradingActionMessage ('H') carries the per-symbol trading state: 'H'
// halted, 'P' paused, 'Q' quotation only, 'T' trading.
type StockTradingActionMessage struct {
	MessageHeader
	Stock        Symbol
	TradingState byte
	Reserved     byte
	Reason       [4]byte
}

func (m StockTradingActionMessage) Header() MessageHeader { return m.MessageHeader }
func (m StockTradingActionMessage) Tag() byte { return TagStockTradingAction }

// RegSHORestrictionMessage ('Y') carries a Regulation SHO short-sale price
// test restriction code: '0' none, '1' triggered, '2' remains in effect.
type RegSHORestrictionMessage struct {
	MessageHeader
	Stock        Symbol
	RegSHOAction byte
}

func (m RegSHORestrictionMessage) Header() MessageHeader { return m.MessageHeader }
func (m RegSHORestrictionMessage) Tag() byte { return TagRegSHORestriction }

// MarketParticipantPositionMessage ('L') announces a market participant's
// registration state for a symbol.
type MarketParticipantPositionMessage struct {
	MessageHeader
	MPID                   MPID
	Stock                  Symbol
	PrimaryMarketMaker     byte
	MarketMakerMode        byte
	MarketParticipantState byte
}

func (m MarketParticipantPositionMessage) Header() MessageHeader { return m.MessageHeader }
func (m MarketParticipantPositionMessage) Tag() byte { return TagMarketParticipantPos }

// MWCBDeclineLevelMessage ('V') announces the market-wide circuit breaker
// decline levels for the day.
type MWCBDeclineLevelMessage struct {
	MessageHeader
	Level1 uint64
	Level2 uint64
	Level3 uint64
}

func (m MWCBDeclineLevelMessage) Header() MessageHeader { return m.MessageHeader }
func (m MWCBDeclineLevelMessage) Tag() byte { return TagMWCBDeclineLevel }

// MWCBStatusMessage ('W') announces that a market-wide circuit breaker
// level has been breached (BreachedLevel: '1', '2', or '3').
type MWCBStatusMessage struct {
	MessageHeader
	BreachedLevel byte
}

func (m MWCBStatusMessage) Header() MessageHeader { return m.MessageHeader }
func (m MWCBStatusMessage) Tag() byte { return TagMWCBStatus }

// IPOQuotingPeriodUpdateMessage ('K') updates the expected IPO quotation
// release time and price.
type IPOQuotingPeriodUpdateMessage struct {
	MessageHeader
	Stock                        Symbol
	IPOQuotationReleaseTime      uint32
	IPOQuotationReleaseQualifier byte
	IPOPrice                     Price
}

func (m IPOQuotingPeriodUpdateMessage) Header() MessageHeader { return m.MessageHeader }
func (m IPOQuotingPeriodUpdateMessage) Tag() byte { return TagIPOQuotingPeriodUpdate }

// LULDAuctionCollarMessage ('J') announces Limit Up-Limit Down auction
// collar thresholds.
type LULDAuctionCollarMessage struct {
	MessageHeader
	Stock                       Symbol
	AuctionCollarReferencePrice Price
	UpperAuctionCollarPrice     Price
	LowerAuctionCollarPrice     Price
	AuctionCollarExtension      uint32
}

func (m LULDAuctionCollarMessage) Header() MessageHeader { return m.MessageHeader }
func (m LULDAuctionCollarMessage) Tag() byte { return TagLULDAuctionCollar }

// OperationalHaltMessage ('h') announces an operational (as opposed to
// regulatory) halt on a specific market center.
type OperationalHaltMessage struct {
	MessageHeader
	Stock                 Symbol
	MarketCode            byte
	OperationalHaltAction byte
}

func (m OperationalHaltMessage) Header() MessageHeader { return m.MessageHeader }
func (m OperationalHaltMessage) Tag() byte { return TagOperationalHalt }
