package processor

import "itch50/internal/domain/interfaces"

// statusLatch tracks the three latched byte codes a Processor derives
// TradingStatus from: the system-wide event code, the per-symbol trading
// action state, and the emergency-market-condition code. SystemEventMessage
// carries both systemStatus and emcStatus on the same EventCode field —
// 'O'/'S'/'Q'/'M'/'E'/'C' latch systemStatus, 'A'/'R'/'B' latch emcStatus —
// so the two are split at the point the code is received, not derived from
// it later. None of these is itself the TradingStatus; the status is
// recomputed from all three every time one changes, mirroring
// ITCH50MarketProcessor.update_trading_status.
type statusLatch struct {
	systemStatus byte // SystemEventMessage.EventCode, restricted to OSQMEC, last seen
	stockStatus  byte // StockTradingActionMessage.TradingState, last seen
	emcStatus    byte // SystemEventMessage.EventCode, restricted to ARB, last seen
}

// derive computes the TradingStatus implied by the current latch state.
// Precedence: an EMC halt/quote-only always wins, then a stock-level
// halt/pause/quote-only, then the system-wide pre- or post-trade phase. A
// stock-level 'T' yields trade only when no such phase is latched.
func (s statusLatch) derive() interfaces.TradingStatus {
	switch {
	case s.emcStatus == 'A':
		return interfaces.StatusHalted
	case s.emcStatus == 'R':
		return interfaces.StatusQuoteOnly
	case s.stockStatus == 'H' || s.stockStatus == 'P':
		return interfaces.StatusHalted
	case s.stockStatus == 'Q':
		return interfaces.StatusQuoteOnly
	case s.systemStatus == 'O' || s.systemStatus == 'S':
		return interfaces.StatusPreTrade
	case s.systemStatus == 'M' || s.systemStatus == 'E' || s.systemStatus == 'C':
		return interfaces.StatusPostTrade
	case s.systemStatus == 'Q' && s.stockStatus == 'T':
		return interfaces.StatusTrade
	case s.stockStatus == 'T':
		return interfaces.StatusTrade
	default:
		return interfaces.StatusUnknown
	}
}
