package itch

// OrderReference is the venue-assigned identifier for a resting order,
// unique for the life of the order within a trading day.
type OrderReference uint64

// AddOrderMessage ('A') enters a new order into the book.
type AddOrderMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	BuySellIndicator     Side
	Shares               uint32
	Stock                Symbol
	Price                Price
}

func (m AddOrderMessage) Header() MessageHeader { return m.MessageHeader }
func (m AddOrderMessage) Tag() byte { return TagAddOrder }

// AddOrderMPIDMessage ('F') is AddOrderMessage with an attributed MPID.
type AddOrderMPIDMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	BuySellIndicator     Side
	Shares               uint32
	Stock                Symbol
	Price                Price
	Attribution          MPID
}

func (m AddOrderMPIDMessage) Header() MessageHeader { return m.MessageHeader }
func (m AddOrderMPIDMessage) Tag() byte { return TagAddOrderMPID }

// OrderExecutedMessage ('E') reports a full or partial execution at the
// order's resting price.
type OrderExecutedMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	ExecutedShares       uint32
	MatchNumber          uint64
}

func (m OrderExecutedMessage) Header() MessageHeader { return m.MessageHeader }
func (m OrderExecutedMessage) Tag() byte { return TagOrderExecuted }

// OrderExecutedWithPriceMessage ('C') reports an execution at a price other
// than the order's resting price (e.g. sub-penny or cross execution); the
// print price does not alter the order's resting price.
type OrderExecutedWithPriceMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	ExecutedShares       uint32
	MatchNumber          uint64
	Printable            byte
	ExecutionPrice       Price
}

func (m OrderExecutedWithPriceMessage) Header() MessageHeader { return m.MessageHeader }
func (m OrderExecutedWithPriceMessage) Tag() byte { return TagOrderExecutedWithPrice }

// OrderCancelMessage ('X') reduces the resting size of an order without
// removing it.
type OrderCancelMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
	CancelledShares      uint32
}

func (m OrderCancelMessage) Header() MessageHeader { return m.MessageHeader }
func (m OrderCancelMessage) Tag() byte { return TagOrderCancel }

// OrderDeleteMessage ('D') removes an order from the book entirely.
type OrderDeleteMessage struct {
	MessageHeader
	OrderReferenceNumber OrderReference
}

func (m OrderDeleteMessage) Header() MessageHeader { return m.MessageHeader }
func (m OrderDeleteMessage) Tag() byte { return TagOrderDelete }

// OrderReplaceMessage ('U') atomically deletes an existing order and adds a
// replacement with a new reference, size, and price. The replacement enters
// at the back of its price level's queue under the new message's timestamp.
type OrderReplaceMessage struct {
	MessageHeader
	OriginalOrderReferenceNumber OrderReference
	NewOrderReferenceNumber      OrderReference
	Shares                       uint32
	Price                        Price
}

func (m OrderReplaceMessage) Header() MessageHeader { return m.MessageHeader }
func (m OrderReplaceMessage) Tag() byte { return TagOrderReplace }
