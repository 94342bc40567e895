package interfaces

import "itch50/internal/domain/entity/book"

// TradingStatus is the derived per-symbol trading state a Processor
// maintains from system- and stock-level status codes.
type TradingStatus byte

const (
	StatusUnknown   TradingStatus = 0
	StatusPreTrade  TradingStatus = 1
	StatusTrade     TradingStatus = 2
	StatusPostTrade TradingStatus = 3
	StatusHalted    TradingStatus = 4
	StatusQuoteOnly TradingStatus = 5
)

func (s TradingStatus) String() string {
	switch s {
	case StatusPreTrade:
		return "pre-trade"
	case StatusTrade:
		return "trade"
	case StatusPostTrade:
		return "post-trade"
	case StatusHalted:
		return "halted"
	case StatusQuoteOnly:
		return "quote-only"
	default:
		return "unknown"
	}
}

// Handler is the capability interface a consumer implements to observe
// processor events. Every method is optional to "implement meaningfully":
// embed NopHandler and override only the events you care about, exactly
// like the base-class-with-empty-methods pattern it is ported from.
type Handler interface {
	BeforeBookUpdate(book *book.OrderBook, newTimestamp book.Timestamp)
	EnterQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, price book.Price, volume book.Volume, ref book.OrderReference)
	CancelQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference)
	DeleteQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, ref book.OrderReference)
	ReplaceQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, origRef, newRef book.OrderReference, price book.Price, volume book.Volume)
	ExecuteTrade(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, matchNumber book.MatchNumber)
	ExecuteTradePrice(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, matchNumber book.MatchNumber, price book.Price)
	AuctionTrade(symbol book.Symbol, ts book.Timestamp, volume book.Volume, price book.Price, ref book.OrderReference, matchNumber book.MatchNumber)
	CrossingTrade(symbol book.Symbol, ts book.Timestamp, volume book.Volume, price book.Price, matchNumber book.MatchNumber)
	TradingStatusChanged(symbol book.Symbol, ts book.Timestamp, status TradingStatus)

	// ScheduledSnapshots returns timestamps (any order) at which this
	// handler wants a pre-mutation book snapshot delivered. Called once, at
	// registration; the dispatch sorts and owns the resulting schedule from
	// then on, popping entries off as they fire, so a handler with a fixed
	// schedule can simply return it.
	ScheduledSnapshots() []book.Timestamp

	// Snapshot delivers a book snapshot for a scheduled timestamp the
	// feed's clock has strictly passed.
	Snapshot(snap book.Snapshot, scheduledFor book.Timestamp)
}

// NopHandler implements Handler with no-op methods. Concrete handlers
// embed it and override only the events they need.
type NopHandler struct{}

func (NopHandler) BeforeBookUpdate(*book.OrderBook, book.Timestamp) {}
func (NopHandler) EnterQuote(book.Symbol, book.Timestamp, book.Side, book.Price, book.Volume, book.OrderReference) {
}
func (NopHandler) CancelQuote(book.Symbol, book.Timestamp, book.Side, book.Volume, book.OrderReference) {
}
func (NopHandler) DeleteQuote(book.Symbol, book.Timestamp, book.Side, book.OrderReference) {}
func (NopHandler) ReplaceQuote(book.Symbol, book.Timestamp, book.Side, book.OrderReference, book.OrderReference, book.Price, book.Volume) {
}
func (NopHandler) ExecuteTrade(book.Symbol, book.Timestamp, book.Side, book.Volume, book.OrderReference, book.MatchNumber) {
}
func (NopHandler) ExecuteTradePrice(book.Symbol, book.Timestamp, book.Side, book.Volume, book.OrderReference, book.MatchNumber, book.Price) {
}
func (NopHandler) AuctionTrade(book.Symbol, book.Timestamp, book.Volume, book.Price, book.OrderReference, book.MatchNumber) {
}
func (NopHandler) CrossingTrade(book.Symbol, book.Timestamp, book.Volume, book.Price, book.MatchNumber) {
}
func (NopHandler) TradingStatusChanged(book.Symbol, book.Timestamp, TradingStatus) {}
func (NopHandler) ScheduledSnapshots() []book.Timestamp { return nil }
func (NopHandler) Snapshot(book.Snapshot, book.Timestamp) {}
