package processor

import (
	"sort"

	"github.com/google/uuid"

	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/interfaces"
)

// registration pairs a handler with its own remaining schedule of snapshot
// timestamps, kept ascending so the soonest-due entry is always at index 0.
type registration struct {
	id        uuid.UUID
	handler   interfaces.Handler
	scheduled []book.Timestamp
}

// handlerDispatch is the ordered fan-out of registered handlers. It is an
// unexported field of Processor rather than exported standalone, since a dispatch
// has no meaning detached from the book it snapshots.
type handlerDispatch struct {
	handlers []*registration
}

// register adds a handler and returns a subscription id that Unregister
// accepts later.
func (d *handlerDispatch) register(h interfaces.Handler) uuid.UUID {
	schedule := append([]book.Timestamp(nil), h.ScheduledSnapshots()...)
	sort.Slice(schedule, func(i, j int) bool { return schedule[i] < schedule[j] })
	reg := &registration{id: uuid.New(), handler: h, scheduled: schedule}
	d.handlers = append(d.handlers, reg)
	return reg.id
}

func (d *handlerDispatch) unregister(id uuid.UUID) {
	for i, reg := range d.handlers {
		if reg.id == id {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

// beforeUpdate is called once per incoming message, before that message's
// mutation (if any) is applied to ob. It notifies every handler of the
// impending update, then delivers any snapshots whose scheduled time has
// been strictly passed — all against ob's current, pre-mutation state.
// A schedule entry equal to newTimestamp does not fire yet: it still needs
// every message carrying that exact timestamp applied first, so it fires
// on the next call whose newTimestamp is strictly greater. depth bounds
// the number of price levels per side included in each delivered snapshot
// (zero means unbounded).
func (d *handlerDispatch) beforeUpdate(ob *book.OrderBook, newTimestamp book.Timestamp, depth int) {
	for _, reg := range d.handlers {
		reg.handler.BeforeBookUpdate(ob, newTimestamp)
		for len(reg.scheduled) > 0 && reg.scheduled[0] < newTimestamp {
			due := reg.scheduled[0]
			reg.scheduled = reg.scheduled[1:]
			snap := ob.Snapshot(depth)
			reg.handler.Snapshot(snap, due)
		}
	}
}

func (d *handlerDispatch) tradingStatusChanged(symbol book.Symbol, ts book.Timestamp, status interfaces.TradingStatus) {
	for _, reg := range d.handlers {
		reg.handler.TradingStatusChanged(symbol, ts, status)
	}
}

func (d *handlerDispatch) enterQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, price book.Price, volume book.Volume, ref book.OrderReference) {
	for _, reg := range d.handlers {
		reg.handler.EnterQuote(symbol, ts, side, price, volume, ref)
	}
}

func (d *handlerDispatch) cancelQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference) {
	for _, reg := range d.handlers {
		reg.handler.CancelQuote(symbol, ts, side, volume, ref)
	}
}

func (d *handlerDispatch) deleteQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, ref book.OrderReference) {
	for _, reg := range d.handlers {
		reg.handler.DeleteQuote(symbol, ts, side, ref)
	}
}

func (d *handlerDispatch) replaceQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, origRef, newRef book.OrderReference, price book.Price, volume book.Volume) {
	for _, reg := range d.handlers {
		reg.handler.ReplaceQuote(symbol, ts, side, origRef, newRef, price, volume)
	}
}

func (d *handlerDispatch) executeTrade(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, match book.MatchNumber) {
	for _, reg := range d.handlers {
		reg.handler.ExecuteTrade(symbol, ts, side, volume, ref, match)
	}
}

func (d *handlerDispatch) executeTradePrice(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, match book.MatchNumber, price book.Price) {
	for _, reg := range d.handlers {
		reg.handler.ExecuteTradePrice(symbol, ts, side, volume, ref, match, price)
	}
}

func (d *handlerDispatch) auctionTrade(symbol book.Symbol, ts book.Timestamp, volume book.Volume, price book.Price, ref book.OrderReference, match book.MatchNumber) {
	for _, reg := range d.handlers {
		reg.handler.AuctionTrade(symbol, ts, volume, price, ref, match)
	}
}

func (d *handlerDispatch) crossingTrade(symbol book.Symbol, ts book.Timestamp, volume book.Volume, price book.Price, match book.MatchNumber) {
	for _, reg := range d.handlers {
		reg.handler.CrossingTrade(symbol, ts, volume, price, match)
	}
}
