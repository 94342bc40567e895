package book

import "sort"

// sideBook holds one side's price levels in priority order: best price
// first. Bid levels are sorted price-descending, Ask levels
// price-ascending, so index 0 is always top-of-book for that side. Level
// lookup by price is O(log L) via binary search; inserting or removing a
// level is O(L) to keep the slice contiguous and sorted, matching the
// bound the book's price-time-priority guarantee actually depends on.
type sideBook struct {
	side   Side
	levels []*PriceLevel
}

func newSideBook(side Side) *sideBook {
	return &sideBook{side: side}
}

// better reports whether price a has priority over price b on this side.
func (s *sideBook) better(a, b Price) bool {
	if s.side == Bid {
		return a > b
	}
	return a < b
}

// find locates the level at price, returning its slice index and whether it
// exists.
func (s *sideBook) find(price Price) (int, bool) {
	idx := sort.Search(len(s.levels), func(i int) bool {
		return s.atOrPast(s.levels[i].Price, price)
	})
	if idx < len(s.levels) && s.levels[idx].Price == price {
		return idx, true
	}
	return idx, false
}

// atOrPast reports whether level price p is at or past (in priority order)
// the target price, i.e. the insertion point for target is <= this index.
func (s *sideBook) atOrPast(p, target Price) bool {
	if s.side == Bid {
		return p <= target
	}
	return p >= target
}

// getOrCreate returns the level at price, creating and inserting it in
// sorted position if absent.
func (s *sideBook) getOrCreate(price Price) *PriceLevel {
	idx, ok := s.find(price)
	if ok {
		return s.levels[idx]
	}
	level := newPriceLevel(price)
	s.levels = append(s.levels, nil)
	copy(s.levels[idx+1:], s.levels[idx:])
	s.levels[idx] = level
	return level
}

// get returns the level at price without creating it.
func (s *sideBook) get(price Price) (*PriceLevel, bool) {
	idx, ok := s.find(price)
	if !ok {
		return nil, false
	}
	return s.levels[idx], true
}

// removeEmpty drops a now-empty level from the slice.
func (s *sideBook) removeEmpty(price Price) {
	idx, ok := s.find(price)
	if !ok {
		return
	}
	s.levels = append(s.levels[:idx], s.levels[idx+1:]...)
}

// top returns the best (highest-priority) level, if any.
func (s *sideBook) top() (*PriceLevel, bool) {
	if len(s.levels) == 0 {
		return nil, false
	}
	return s.levels[0], true
}

// depth returns up to n levels from the top, best first.
func (s *sideBook) depth(n int) []*PriceLevel {
	if n <= 0 || n > len(s.levels) {
		n = len(s.levels)
	}
	out := make([]*PriceLevel, n)
	copy(out, s.levels[:n])
	return out
}
