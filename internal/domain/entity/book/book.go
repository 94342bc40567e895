package book

// OrderBook is a two-sided price-time-priority limit order book for a
// single symbol. All mutation methods return a typed error instead of
// panicking; the caller (typically a Processor) decides whether a failed
// mutation is fatal.
type OrderBook struct {
	Symbol    Symbol
	Timestamp Timestamp

	bid *sideBook
	ask *sideBook

	arena *orderArena
	index map[OrderReference]orderHandle
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol Symbol) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bid:    newSideBook(Bid),
		ask:    newSideBook(Ask),
		arena:  newOrderArena(),
		index:  make(map[OrderReference]orderHandle),
	}
}

func (b *OrderBook) sideBookFor(side Side) *sideBook {
	if side == Bid {
		return b.bid
	}
	return b.ask
}

// Add enters a new order. DuplicateRefError if ref is already resting.
func (b *OrderBook) Add(ref OrderReference, side Side, price Price, volume Volume, ts Timestamp) error {
	if _, exists := b.index[ref]; exists {
		return &DuplicateRefError{Ref: ref}
	}
	order := Order{Ref: ref, Side: side, Price: price, Volume: volume, Timestamp: ts}
	handle := b.arena.alloc(order)
	b.index[ref] = handle
	level := b.sideBookFor(side).getOrCreate(price)
	level.enqueue(b.arena, handle)
	b.Timestamp = ts
	return nil
}

// Execute records an execution of volume shares against ref's resting
// price. UnknownRefError if ref is not resting; OverExecutedError if volume
// exceeds the order's remaining size. A fully-executed order is removed.
func (b *OrderBook) Execute(ref OrderReference, volume Volume, ts Timestamp) error {
	handle, ok := b.index[ref]
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	order, ok := b.arena.get(handle)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	if volume > order.Volume {
		return &OverExecutedError{Ref: ref, Requested: volume, Resting: order.Volume}
	}
	level, ok := b.sideBookFor(order.Side).get(order.Price)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	level.Volume -= volume
	order.Volume -= volume
	b.Timestamp = ts
	if order.Volume == 0 {
		b.removeOrder(order.Side, order.Price, ref, handle, level)
	}
	return nil
}

// ExecuteWithPrice records an execution whose print price may differ from
// the order's resting price. It takes no price argument: the print price
// never changes the book, so this behaves exactly like Execute and only the
// remaining resting volume changes.
func (b *OrderBook) ExecuteWithPrice(ref OrderReference, volume Volume, ts Timestamp) error {
	return b.Execute(ref, volume, ts)
}

// Cancel reduces ref's resting volume by volume without removing the
// order, unless the cancel exhausts it. OverCancelledError if volume
// exceeds the order's remaining size.
func (b *OrderBook) Cancel(ref OrderReference, volume Volume, ts Timestamp) error {
	handle, ok := b.index[ref]
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	order, ok := b.arena.get(handle)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	if volume > order.Volume {
		return &OverCancelledError{Ref: ref, Requested: volume, Resting: order.Volume}
	}
	level, ok := b.sideBookFor(order.Side).get(order.Price)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	level.Volume -= volume
	order.Volume -= volume
	b.Timestamp = ts
	if order.Volume == 0 {
		b.removeOrder(order.Side, order.Price, ref, handle, level)
	}
	return nil
}

// Delete removes ref from the book entirely, regardless of remaining
// volume. UnknownRefError if ref is not resting.
func (b *OrderBook) Delete(ref OrderReference, ts Timestamp) error {
	handle, ok := b.index[ref]
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	order, ok := b.arena.get(handle)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	level, ok := b.sideBookFor(order.Side).get(order.Price)
	if !ok {
		return &UnknownRefError{Ref: ref}
	}
	b.Timestamp = ts
	b.removeOrder(order.Side, order.Price, ref, handle, level)
	return nil
}

// Replace atomically deletes origRef and adds newRef with a new size and
// price, inheriting ts as the replacement's priority timestamp — the
// replacement always re-enters at the back of its price level's queue,
// even if the price is unchanged. UnknownRefError if origRef is not
// resting; DuplicateRefError if newRef already is.
func (b *OrderBook) Replace(origRef, newRef OrderReference, volume Volume, price Price, ts Timestamp) error {
	handle, ok := b.index[origRef]
	if !ok {
		return &UnknownRefError{Ref: origRef}
	}
	order, ok := b.arena.get(handle)
	if !ok {
		return &UnknownRefError{Ref: origRef}
	}
	if _, exists := b.index[newRef]; exists {
		return &DuplicateRefError{Ref: newRef}
	}
	side := order.Side
	level, ok := b.sideBookFor(side).get(order.Price)
	if !ok {
		return &UnknownRefError{Ref: origRef}
	}
	b.removeOrder(side, order.Price, origRef, handle, level)
	return b.Add(newRef, side, price, volume, ts)
}

// removeOrder unlinks an order from its level (dropping the level if it
// empties) and from the reference index, then frees its arena slot.
func (b *OrderBook) removeOrder(side Side, price Price, ref OrderReference, handle orderHandle, level *PriceLevel) {
	level.remove(b.arena, handle)
	if level.empty() {
		b.sideBookFor(side).removeEmpty(price)
	}
	delete(b.index, ref)
	b.arena.free(handle)
}

// Order returns a copy of the live order for ref, if resting.
func (b *OrderBook) Order(ref OrderReference) (Order, bool) {
	handle, ok := b.index[ref]
	if !ok {
		return Order{}, false
	}
	order, ok := b.arena.get(handle)
	if !ok {
		return Order{}, false
	}
	return *order, true
}

// Has reports whether ref is currently resting.
func (b *OrderBook) Has(ref OrderReference) bool {
	_, ok := b.index[ref]
	return ok
}

// OrdersAt returns the references resting at price on side, front to back
// in execution priority order. Intended for tests and diagnostics; normal
// mutation never needs to walk a level's queue directly.
func (b *OrderBook) OrdersAt(side Side, price Price) []OrderReference {
	level, ok := b.sideBookFor(side).get(price)
	if !ok {
		return nil
	}
	handles := level.orders(b.arena)
	refs := make([]OrderReference, 0, len(handles))
	for _, h := range handles {
		if order, ok := b.arena.get(h); ok {
			refs = append(refs, order.Ref)
		}
	}
	return refs
}

// BestBid and BestAsk return the top-of-book price and aggregate volume
// for each side.
func (b *OrderBook) BestBid() (Price, Volume, bool) {
	level, ok := b.bid.top()
	if !ok {
		return 0, 0, false
	}
	return level.Price, level.Volume, true
}

func (b *OrderBook) BestAsk() (Price, Volume, bool) {
	level, ok := b.ask.top()
	if !ok {
		return 0, 0, false
	}
	return level.Price, level.Volume, true
}

// Level is a single row of a depth snapshot.
type Level struct {
	Price  Price
	Volume Volume
	Orders int
}

// Snapshot is a point-in-time view of the book's visible depth.
type Snapshot struct {
	Symbol    Symbol
	Timestamp Timestamp
	Bids      []Level
	Asks      []Level
}

// Snapshot renders up to depth price levels per side, best first. depth <=
// 0 means every level.
func (b *OrderBook) Snapshot(depth int) Snapshot {
	return Snapshot{
		Symbol:    b.Symbol,
		Timestamp: b.Timestamp,
		Bids:      renderLevels(b.bid.depth(depth)),
		Asks:      renderLevels(b.ask.depth(depth)),
	}
}

func renderLevels(levels []*PriceLevel) []Level {
	out := make([]Level, len(levels))
	for i, l := range levels {
		out[i] = Level{Price: l.Price, Volume: l.Volume, Orders: l.count}
	}
	return out
}
