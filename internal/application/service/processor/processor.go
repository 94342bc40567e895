// Package processor implements the per-symbol ITCH market-data state
// machine: it filters the feed down to one symbol, derives trading status,
// applies order-book mutations, converts stale references into warnings
// instead of fatal errors, and fans out events (and scheduled snapshots) to
// registered handlers.
package processor

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/entity/itch"
	"itch50/internal/domain/interfaces"
)

// StaleReferenceError is raised (as a warning, not a fatal error) when an
// order-keyed follow-up message names a reference that is not resting in
// the processor's book. Unlike book.UnknownRefError, which always rejects a
// mutation attempt, this is the processor's own classification of "this is
// expected noise from a feed that started mid-stream or from a reference
// this processor's symbol filter dropped the opening order for."
type StaleReferenceError struct {
	Ref book.OrderReference
	Tag byte
}

func (e *StaleReferenceError) Error() string {
	return "processor: stale reference " + itchTagName(e.Tag)
}

func itchTagName(tag byte) string { return string(tag) }

// Processor runs the state machine for a single symbol.
type Processor struct {
	Symbol book.Symbol
	Book   *book.OrderBook

	// Strict, when true, treats any book error (DuplicateRefError,
	// OverExecutedError, OverCancelledError) as fatal and returns it from
	// Process.
	// Default false: such errors are reported via OnError and otherwise
	// ignored, since they most often indicate a feed replayed from a
	// mid-stream cut point rather than actual data corruption.
	Strict bool

	// OnError, if set, is called for every non-fatal error the processor
	// absorbs (stale references, non-strict book errors).
	OnError func(error)

	// SnapshotDepth bounds the number of price levels per side included in
	// scheduled snapshots delivered to handlers. Zero (the default) means
	// unbounded, matching book.OrderBook.Snapshot's own zero-depth meaning.
	SnapshotDepth int

	dispatch handlerDispatch
	status   statusLatch

	logger *logrus.Entry
}

// New creates a Processor for symbol, backed by a fresh order book.
func New(symbol book.Symbol, logger *logrus.Logger) *Processor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Processor{
		Symbol: symbol,
		Book:   book.NewOrderBook(symbol),
		logger: logger.WithField("symbol", string(symbol)),
	}
}

// Register adds a handler, returning a subscription id usable with
// Unregister.
func (p *Processor) Register(h interfaces.Handler) uuid.UUID {
	return p.dispatch.register(h)
}

// Unregister removes a previously-registered handler.
func (p *Processor) Unregister(id uuid.UUID) {
	p.dispatch.unregister(id)
}

// Status returns the processor's currently derived trading status.
func (p *Processor) Status() interfaces.TradingStatus {
	return p.status.derive()
}

// Process applies one decoded message to the processor's state. It returns
// a non-nil error only for conditions the processor treats as fatal:
// Strict-mode book-invariant violations. Everything else — messages for
// other symbols, stale references, non-strict book errors — is absorbed
// and, where OnError is set, reported there instead.
func (p *Processor) Process(msg itch.Message) error {
	header := msg.Header()
	ts := book.Timestamp(header.Timestamp)

	p.dispatch.beforeUpdate(p.Book, ts, p.SnapshotDepth)

	switch m := msg.(type) {
	case itch.SystemEventMessage:
		p.updateStatus(ts, func(s *statusLatch) {
			switch m.EventCode {
			case 'A', 'R', 'B':
				s.emcStatus = m.EventCode
			default:
				s.systemStatus = m.EventCode
			}
		})
		return nil

	case itch.StockTradingActionMessage:
		if !p.matches(m.Stock) {
			return nil
		}
		p.updateStatus(ts, func(s *statusLatch) { s.stockStatus = m.TradingState })
		return nil

	case itch.MWCBStatusMessage, itch.MWCBDeclineLevelMessage, itch.OperationalHaltMessage:
		return nil

	case itch.AddOrderMessage:
		if !p.matches(m.Stock) {
			return nil
		}
		return p.enterQuote(ts, book.OrderReference(m.OrderReferenceNumber), book.Side(m.BuySellIndicator), book.Price(m.Price), book.Volume(m.Shares))

	case itch.AddOrderMPIDMessage:
		if !p.matches(m.Stock) {
			return nil
		}
		return p.enterQuote(ts, book.OrderReference(m.OrderReferenceNumber), book.Side(m.BuySellIndicator), book.Price(m.Price), book.Volume(m.Shares))

	case itch.OrderExecutedMessage:
		return p.executeTrade(ts, book.OrderReference(m.OrderReferenceNumber), book.Volume(m.ExecutedShares), book.MatchNumber(m.MatchNumber), m.Tag())

	case itch.OrderExecutedWithPriceMessage:
		return p.executeTradePrice(ts, book.OrderReference(m.OrderReferenceNumber), book.Volume(m.ExecutedShares), book.MatchNumber(m.MatchNumber), book.Price(m.ExecutionPrice), m.Tag())

	case itch.OrderCancelMessage:
		return p.cancelQuote(ts, book.OrderReference(m.OrderReferenceNumber), book.Volume(m.CancelledShares), m.Tag())

	case itch.OrderDeleteMessage:
		return p.deleteQuote(ts, book.OrderReference(m.OrderReferenceNumber), m.Tag())

	case itch.OrderReplaceMessage:
		return p.replaceQuote(ts, book.OrderReference(m.OriginalOrderReferenceNumber), book.OrderReference(m.NewOrderReferenceNumber), book.Price(m.Price), book.Volume(m.Shares), m.Tag())

	case itch.TradeMessage:
		if !p.matches(m.Stock) {
			return nil
		}
		p.dispatch.auctionTrade(p.Symbol, ts, book.Volume(m.Shares), book.Price(m.Price), book.OrderReference(m.OrderReferenceNumber), book.MatchNumber(m.MatchNumber))
		return nil

	case itch.CrossTradeMessage:
		if !p.matches(m.Stock) {
			return nil
		}
		p.dispatch.crossingTrade(p.Symbol, ts, book.Volume(m.Shares), book.Price(m.CrossPrice), book.MatchNumber(m.MatchNumber))
		return nil

	default:
		// Stock directory, RegSHO, market-participant-position, IPO,
		// LULD collar, NOII, RPII, direct-listing messages carry no book
		// mutation in this processor; a handler that needs them can decode
		// the raw feed itself rather than go through Process.
		return nil
	}
}

func (p *Processor) matches(stock itch.Symbol) bool {
	return book.Symbol(stock.String()) == p.Symbol
}

func (p *Processor) updateStatus(ts book.Timestamp, mutate func(*statusLatch)) {
	before := p.status.derive()
	mutate(&p.status)
	after := p.status.derive()
	if after != before {
		p.dispatch.tradingStatusChanged(p.Symbol, ts, after)
	}
}

func (p *Processor) enterQuote(ts book.Timestamp, ref book.OrderReference, side book.Side, price book.Price, volume book.Volume) error {
	if err := p.Book.Add(ref, side, price, volume, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.enterQuote(p.Symbol, ts, side, price, volume, ref)
	return nil
}

func (p *Processor) cancelQuote(ts book.Timestamp, ref book.OrderReference, volume book.Volume, tag byte) error {
	side, ok := p.sideOf(ref)
	if !ok {
		return p.stale(ref, tag)
	}
	if err := p.Book.Cancel(ref, volume, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.cancelQuote(p.Symbol, ts, side, volume, ref)
	return nil
}

func (p *Processor) deleteQuote(ts book.Timestamp, ref book.OrderReference, tag byte) error {
	side, ok := p.sideOf(ref)
	if !ok {
		return p.stale(ref, tag)
	}
	if err := p.Book.Delete(ref, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.deleteQuote(p.Symbol, ts, side, ref)
	return nil
}

func (p *Processor) replaceQuote(ts book.Timestamp, origRef, newRef book.OrderReference, price book.Price, volume book.Volume, tag byte) error {
	side, ok := p.sideOf(origRef)
	if !ok {
		return p.stale(origRef, tag)
	}
	if err := p.Book.Replace(origRef, newRef, volume, price, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.replaceQuote(p.Symbol, ts, side, origRef, newRef, price, volume)
	return nil
}

func (p *Processor) executeTrade(ts book.Timestamp, ref book.OrderReference, volume book.Volume, match book.MatchNumber, tag byte) error {
	side, ok := p.sideOf(ref)
	if !ok {
		return p.stale(ref, tag)
	}
	if err := p.Book.Execute(ref, volume, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.executeTrade(p.Symbol, ts, side, volume, ref, match)
	return nil
}

func (p *Processor) executeTradePrice(ts book.Timestamp, ref book.OrderReference, volume book.Volume, match book.MatchNumber, price book.Price, tag byte) error {
	side, ok := p.sideOf(ref)
	if !ok {
		return p.stale(ref, tag)
	}
	if err := p.Book.ExecuteWithPrice(ref, volume, ts); err != nil {
		return p.absorb(err)
	}
	p.dispatch.executeTradePrice(p.Symbol, ts, side, volume, ref, match, price)
	return nil
}

func (p *Processor) sideOf(ref book.OrderReference) (book.Side, bool) {
	order, ok := p.Book.Order(ref)
	if !ok {
		return 0, false
	}
	return order.Side, true
}

// stale converts an order-keyed message's unknown reference into a
// non-fatal warning: the reference belongs to an order this processor
// never saw entered, most likely because it was live before the processor
// started tracking the symbol.
func (p *Processor) stale(ref book.OrderReference, tag byte) error {
	err := &StaleReferenceError{Ref: ref, Tag: tag}
	p.report(err)
	return nil
}

// absorb applies Strict-mode policy to a book error: return it as fatal in
// strict mode, otherwise report and absorb it.
func (p *Processor) absorb(err error) error {
	if p.Strict {
		return err
	}
	p.report(err)
	return nil
}

func (p *Processor) report(err error) {
	if p.OnError != nil {
		p.OnError(err)
		return
	}
	var stale *StaleReferenceError
	if errors.As(err, &stale) {
		p.logger.WithError(err).Debug("stale reference")
		return
	}
	p.logger.WithError(err).Warn("book error absorbed")
}
