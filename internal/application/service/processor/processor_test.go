package processor

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/entity/itch"
	"itch50/internal/domain/interfaces"
)

func TestTradingStatusPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		latch  statusLatch
		expect interfaces.TradingStatus
	}{
		{"emc halt wins over everything", statusLatch{systemStatus: 'O', stockStatus: 'T', emcStatus: 'A'}, interfaces.StatusHalted},
		{"emc quote-only wins over stock trading", statusLatch{systemStatus: 'Q', stockStatus: 'T', emcStatus: 'R'}, interfaces.StatusQuoteOnly},
		{"emc resumption clears back to stock/system evaluation", statusLatch{systemStatus: 'Q', stockStatus: 'T', emcStatus: 'B'}, interfaces.StatusTrade},
		{"stock halt wins over system phase", statusLatch{systemStatus: 'O', stockStatus: 'H'}, interfaces.StatusHalted},
		{"stock quote-only wins over system phase", statusLatch{systemStatus: 'O', stockStatus: 'Q'}, interfaces.StatusQuoteOnly},
		{"system start-of-day is pre-trade", statusLatch{systemStatus: 'O'}, interfaces.StatusPreTrade},
		{"system end-of-day is post-trade", statusLatch{systemStatus: 'M'}, interfaces.StatusPostTrade},
		{"stock trading with system quoting-only is still trade", statusLatch{systemStatus: 'Q', stockStatus: 'T'}, interfaces.StatusTrade},
		{"stock trading alone is trade", statusLatch{stockStatus: 'T'}, interfaces.StatusTrade},
		{"nothing latched is unknown", statusLatch{}, interfaces.StatusUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expect, c.latch.derive())
		})
	}
}

// captureHandler records the dispatch calls these tests assert on: status
// changes, scheduled snapshots and auction trades.
type captureHandler struct {
	interfaces.NopHandler

	schedule      []book.Timestamp
	statusChanges []interfaces.TradingStatus
	snapshots     []book.Snapshot
	snapshotDueAt []book.Timestamp
	auctionTrades []book.OrderReference
}

func (h *captureHandler) ScheduledSnapshots() []book.Timestamp { return h.schedule }

func (h *captureHandler) AuctionTrade(symbol book.Symbol, ts book.Timestamp, volume book.Volume, price book.Price, ref book.OrderReference, matchNumber book.MatchNumber) {
	h.auctionTrades = append(h.auctionTrades, ref)
}

func (h *captureHandler) TradingStatusChanged(symbol book.Symbol, ts book.Timestamp, status interfaces.TradingStatus) {
	h.statusChanges = append(h.statusChanges, status)
}

func (h *captureHandler) Snapshot(snap book.Snapshot, scheduledFor book.Timestamp) {
	h.snapshots = append(h.snapshots, snap)
	h.snapshotDueAt = append(h.snapshotDueAt, scheduledFor)
}

func newTestProcessor(symbol string) *Processor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(book.Symbol(symbol), logger)
}

func TestProcessIgnoresMessagesForOtherSymbols(t *testing.T) {
	p := newTestProcessor("AAPL")

	err := p.Process(itch.AddOrderMessage{
		MessageHeader:        itch.MessageHeader{Timestamp: 1},
		OrderReferenceNumber: 1,
		BuySellIndicator:     itch.SideBuy,
		Shares:               100,
		Stock:                itch.PadSymbol("MSFT"),
		Price:                10000,
	})

	require.NoError(t, err)
	assert.False(t, p.Book.Has(1), "an order for a different symbol must never enter this processor's book")
}

func TestProcessEntersOrderForOwnSymbol(t *testing.T) {
	p := newTestProcessor("AAPL")

	err := p.Process(itch.AddOrderMessage{
		MessageHeader:        itch.MessageHeader{Timestamp: 1},
		OrderReferenceNumber: 1,
		BuySellIndicator:     itch.SideBuy,
		Shares:               100,
		Stock:                itch.PadSymbol("AAPL"),
		Price:                10000,
	})

	require.NoError(t, err)
	assert.True(t, p.Book.Has(1))
}

func TestProcessStaleReferenceAbsorbedNonFatal(t *testing.T) {
	p := newTestProcessor("AAPL")
	var reported error
	p.OnError = func(err error) { reported = err }

	err := p.Process(itch.OrderCancelMessage{
		MessageHeader:        itch.MessageHeader{Timestamp: 1},
		OrderReferenceNumber: 99,
		CancelledShares:      10,
	})

	require.NoError(t, err, "a stale reference must never be fatal")
	var staleErr *StaleReferenceError
	require.ErrorAs(t, reported, &staleErr)
	assert.Equal(t, book.OrderReference(99), staleErr.Ref)
}

func TestProcessBookErrorAbsorbedByDefault(t *testing.T) {
	p := newTestProcessor("AAPL")
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))

	var reported error
	p.OnError = func(err error) { reported = err }

	err := p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 2}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 50, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	})

	require.NoError(t, err)
	assert.Error(t, reported)
}

func TestProcessBookErrorFatalInStrictMode(t *testing.T) {
	p := newTestProcessor("AAPL")
	p.Strict = true
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))

	err := p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 2}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 50, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	})

	require.Error(t, err)
}

func TestProcessTradingStatusChangeDispatch(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{}
	p.Register(h)

	require.NoError(t, p.Process(itch.SystemEventMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, EventCode: 'O',
	}))

	require.Len(t, h.statusChanges, 1)
	assert.Equal(t, interfaces.StatusPreTrade, h.statusChanges[0])
	assert.Equal(t, interfaces.StatusPreTrade, p.Status())
}

func TestProcessTradingStatusUnchangedDoesNotRedispatch(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{}
	p.Register(h)

	require.NoError(t, p.Process(itch.SystemEventMessage{MessageHeader: itch.MessageHeader{Timestamp: 1}, EventCode: 'O'}))
	require.NoError(t, p.Process(itch.SystemEventMessage{MessageHeader: itch.MessageHeader{Timestamp: 2}, EventCode: 'O'}))

	assert.Len(t, h.statusChanges, 1, "re-announcing the same system code must not fire a second change event")
}

func TestProcessEMCSystemEventCodeHaltsInsteadOfUnknown(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{}
	p.Register(h)

	require.NoError(t, p.Process(itch.SystemEventMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, EventCode: 'Q',
	}))
	require.NoError(t, p.Process(itch.StockTradingActionMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 2}, Stock: itch.PadSymbol("AAPL"), TradingState: 'T',
	}))
	require.Equal(t, interfaces.StatusTrade, p.Status())

	require.NoError(t, p.Process(itch.SystemEventMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 3}, EventCode: 'A',
	}))
	assert.Equal(t, interfaces.StatusHalted, p.Status(), "EMC code 'A' must halt, not fall through to unknown")

	require.NoError(t, p.Process(itch.SystemEventMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 4}, EventCode: 'B',
	}))
	assert.Equal(t, interfaces.StatusTrade, p.Status(), "EMC resumption 'B' clears the halt and falls back to the latched stock/system state")
}

func TestProcessOperationalHaltDoesNotAffectTradingStatus(t *testing.T) {
	p := newTestProcessor("AAPL")

	require.NoError(t, p.Process(itch.SystemEventMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, EventCode: 'Q',
	}))
	require.NoError(t, p.Process(itch.StockTradingActionMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 2}, Stock: itch.PadSymbol("AAPL"), TradingState: 'T',
	}))
	require.Equal(t, interfaces.StatusTrade, p.Status())

	require.NoError(t, p.Process(itch.OperationalHaltMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 3}, Stock: itch.PadSymbol("AAPL"), OperationalHaltAction: 'H',
	}))
	assert.Equal(t, interfaces.StatusTrade, p.Status(), "an operational halt is not one of the system's trading-status inputs")
}

func TestScheduledSnapshotFiresOnceTimestampStrictlyPassesDueTimestamp(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{schedule: []book.Timestamp{5}}
	p.Register(h)

	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))
	assert.Empty(t, h.snapshots, "the schedule is not yet due")

	// the next message's timestamp (10) strictly passes the due time (5);
	// the snapshot delivered must reflect the book as of the prior
	// message, before this one's own mutation is applied
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 10}, OrderReferenceNumber: 2,
		BuySellIndicator: itch.SideBuy, Shares: 200, Stock: itch.PadSymbol("AAPL"), Price: 9900,
	}))

	require.Len(t, h.snapshots, 1)
	assert.Equal(t, book.Timestamp(5), h.snapshotDueAt[0])
	require.Len(t, h.snapshots[0].Bids, 1, "snapshot must predate order 2's entry")
	assert.Equal(t, book.Price(10000), h.snapshots[0].Bids[0].Price)

	assert.True(t, p.Book.Has(2), "order 2 is still applied after the snapshot fires")
}

func TestScheduledSnapshotAtExactDueTimestampWaitsForStrictlyLaterMessage(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{schedule: []book.Timestamp{5}}
	p.Register(h)

	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))

	// this message's own timestamp equals the due time exactly; it must
	// still be applied before the schedule entry fires, since the
	// snapshot for t=5 has to include every message also timestamped 5
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 5}, OrderReferenceNumber: 2,
		BuySellIndicator: itch.SideBuy, Shares: 200, Stock: itch.PadSymbol("AAPL"), Price: 9900,
	}))
	assert.Empty(t, h.snapshots, "a schedule entry equal to the message timestamp has not yet been strictly passed")

	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 6}, OrderReferenceNumber: 3,
		BuySellIndicator: itch.SideBuy, Shares: 300, Stock: itch.PadSymbol("AAPL"), Price: 9800,
	}))

	require.Len(t, h.snapshots, 1)
	assert.Equal(t, book.Timestamp(5), h.snapshotDueAt[0])
	require.Len(t, h.snapshots[0].Bids, 2, "snapshot for t=5 must include the order also timestamped 5")
}

func TestScheduledSnapshotPopsMultipleDueEntriesInOneMessage(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{schedule: []book.Timestamp{2, 4}}
	p.Register(h)

	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 10}, OrderReferenceNumber: 2,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 9900,
	}))

	require.Len(t, h.snapshots, 2, "both schedule entries due by timestamp 10 must fire off the same message")
	assert.Equal(t, []book.Timestamp{2, 4}, h.snapshotDueAt)
}

func TestProcessExecuteReducesRestingVolume(t *testing.T) {
	p := newTestProcessor("AAPL")
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideSell, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))

	err := p.Process(itch.OrderExecutedMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 2}, OrderReferenceNumber: 1,
		ExecutedShares: 40, MatchNumber: 555,
	})
	require.NoError(t, err)

	order, ok := p.Book.Order(1)
	require.True(t, ok)
	assert.Equal(t, book.Volume(60), order.Volume)
}

func TestProcessHiddenTradeLeavesBookUntouched(t *testing.T) {
	p := newTestProcessor("AAPL")
	h := &captureHandler{}
	p.Register(h)

	err := p.Process(itch.TradeMessage{
		MessageHeader:        itch.MessageHeader{Timestamp: 1},
		OrderReferenceNumber: 0,
		BuySellIndicator:     itch.SideBuy,
		Shares:               50,
		Stock:                itch.PadSymbol("AAPL"),
		Price:                10010,
		MatchNumber:          7,
	})

	require.NoError(t, err)
	_, _, hasBid := p.Book.BestBid()
	assert.False(t, hasBid, "a hidden trade must never mutate the book")
	require.Len(t, h.auctionTrades, 1)
	assert.Equal(t, book.OrderReference(0), h.auctionTrades[0])
}

func TestProcessReplaceInheritsSideFromOriginal(t *testing.T) {
	p := newTestProcessor("AAPL")
	require.NoError(t, p.Process(itch.AddOrderMessage{
		MessageHeader: itch.MessageHeader{Timestamp: 1}, OrderReferenceNumber: 1,
		BuySellIndicator: itch.SideBuy, Shares: 100, Stock: itch.PadSymbol("AAPL"), Price: 10000,
	}))

	err := p.Process(itch.OrderReplaceMessage{
		MessageHeader:                itch.MessageHeader{Timestamp: 2},
		OriginalOrderReferenceNumber: 1,
		NewOrderReferenceNumber:      2,
		Shares:                       80,
		Price:                        10050,
	})
	require.NoError(t, err)

	order, ok := p.Book.Order(2)
	require.True(t, ok)
	assert.Equal(t, book.Bid, order.Side)
	assert.Equal(t, book.Price(10050), order.Price)
}
