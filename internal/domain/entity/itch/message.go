// Package itch defines the wire message model for the ITCH 5.0 feed: a
// tagged union of fixed-width binary records, dispatched by a single leading
// type byte.
package itch

// MessageHeader carries the three fields every ITCH message shares.
// Timestamp is nanoseconds since midnight, reconstructed from the wire's
// split 16-bit-high/32-bit-low halves into a single 48-bit value.
type MessageHeader struct {
	StockLocate    uint16
	TrackingNumber uint16
	Timestamp      uint64
}

// Message is implemented by every concrete ITCH record type. Consumers
// dispatch on concrete type with a type switch rather than a class
// hierarchy.
type Message interface {
	Header() MessageHeader
	Tag() byte
}

// Tag bytes for every supported ITCH 5.0 message type.
const (
	TagSystemEvent               byte = 'S'
	TagStockDirectory            byte = 'R'
	TagStockTradingAction        byte = 'H'
	TagRegSHORestriction         byte = 'Y'
	TagMarketParticipantPos      byte = 'L'
	TagMWCBDeclineLevel          byte = 'V'
	TagMWCBStatus                byte = 'W'
	TagIPOQuotingPeriodUpdate    byte = 'K'
	TagLULDAuctionCollar         byte = 'J'
	TagOperationalHalt           byte = 'h'
	TagAddOrder                  byte = 'A'
	TagAddOrderMPID              byte = 'F'
	TagOrderExecuted             byte = 'E'
	TagOrderExecutedWithPrice    byte = 'C'
	TagOrderCancel               byte = 'X'
	TagOrderDelete               byte = 'D'
	TagOrderReplace              byte = 'U'
	TagTrade                     byte = 'P'
	TagCrossTrade                byte = 'Q'
	TagBrokenTrade               byte = 'B'
	TagNOII                      byte = 'I'
	TagRPII                      byte = 'N'
	TagDirectListingCapitalRaise byte = 'O'
)

// FixedLengths maps a message tag to its total wire length, including the
// leading type byte. A caller may build an alternate table (e.g. for a
// 4.1-era feed with narrower fields) and pass it to decoder.New via
// decoder.WithLengthTable without forking the decoder.
func FixedLengths() map[byte]int {
	return map[byte]int{
		TagSystemEvent:               12,
		TagStockDirectory:            39,
		TagStockTradingAction:        25,
		TagRegSHORestriction:         20,
		TagMarketParticipantPos:      26,
		TagMWCBDeclineLevel:          35,
		TagMWCBStatus:                12,
		TagIPOQuotingPeriodUpdate:    28,
		TagLULDAuctionCollar:         35,
		TagOperationalHalt:           21,
		TagAddOrder:                  36,
		TagAddOrderMPID:              40,
		TagOrderExecuted:             31,
		TagOrderExecutedWithPrice:    36,
		TagOrderCancel:               23,
		TagOrderDelete:               19,
		TagOrderReplace:              35,
		TagTrade:                     44,
		TagCrossTrade:                40,
		TagBrokenTrade:               19,
		TagNOII:                      50,
		TagRPII:                      20,
		TagDirectListingCapitalRaise: 48,
	}
}

// Side is an order side, Buy or Sell.
type Side byte

const (
	SideBuy  Side = 'B'
	SideSell Side = 'S'
)

// Symbol is an 8-byte space-padded ticker.
type Symbol [8]byte

// String trims the trailing padding.
func (s Symbol) String() string {
	n := len(s)
	for n > 0 && s[n-1] == ' ' {
		n--
	}
	return string(s[:n])
}

// PadSymbol right-pads a ticker to the 8-byte wire width.
func PadSymbol(ticker string) Symbol {
	var s Symbol
	copy(s[:], ticker)
	for i := len(ticker); i < len(s); i++ {
		s[i] = ' '
	}
	return s
}

// MPID is a 4-byte space-padded market participant identifier.
type MPID [4]byte

// String trims the trailing padding.
func (m MPID) String() string {
	n := len(m)
	for n > 0 && m[n-1] == ' ' {
		n--
	}
	return string(m[:n])
}

// PadMPID right-pads an MPID to the 4-byte wire width.
func PadMPID(id string) MPID {
	var m MPID
	copy(m[:], id)
	for i := len(id); i < len(m); i++ {
		m[i] = ' '
	}
	return m
}

// PriceScale is the implied-decimal divisor for 32-bit wire prices: a raw
// value of 1_0000 represents 1.0000.
const PriceScale = 10000

// Price is a wire-native fixed-point price: raw units of 1/10000.
type Price uint32

// Float64 renders the price with its implied decimals, for display only;
// core book logic always compares raw Price values.
func (p Price) Float64() float64 {
	return float64(p) / float64(PriceScale)
}
