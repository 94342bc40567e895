package itch

// Category groups message tags by how a symbol-filtering encoder must
// treat them: always pass, pass only if their own symbol matches, or pass
// only if they follow up on a reference this encoder has already let
// through.
type Category int

const (
	// CategorySystemWide messages carry no symbol and always pass.
	CategorySystemWide Category = iota
	// CategorySymbolKeyed messages carry their own Stock field.
	CategorySymbolKeyed
	// CategoryOrderFollowUp messages reference a prior order by
	// OrderReference and inherit that order's symbol membership.
	CategoryOrderFollowUp
	// CategoryMatchFollowUp messages reference a prior trade by match
	// number and inherit that trade's symbol membership.
	CategoryMatchFollowUp
)

// CategoryOf classifies a message by tag.
func CategoryOf(tag byte) Category {
	switch tag {
	case TagOrderExecuted, TagOrderExecutedWithPrice, TagOrderCancel, TagOrderDelete, TagOrderReplace:
		return CategoryOrderFollowUp
	case TagBrokenTrade:
		return CategoryMatchFollowUp
	case TagSystemEvent, TagMWCBDeclineLevel, TagMWCBStatus:
		return CategorySystemWide
	default:
		return CategorySymbolKeyed
	}
}

// SymbolOf returns the message's own symbol, for CategorySymbolKeyed
// messages.
func SymbolOf(msg Message) (Symbol, bool) {
	switch m := msg.(type) {
	case StockDirectoryMessage:
		return m.Stock, true
	case StockTradingActionMessage:
		return m.Stock, true
	case RegSHORestrictionMessage:
		return m.Stock, true
	case MarketParticipantPositionMessage:
		return m.Stock, true
	case IPOQuotingPeriodUpdateMessage:
		return m.Stock, true
	case LULDAuctionCollarMessage:
		return m.Stock, true
	case OperationalHaltMessage:
		return m.Stock, true
	case AddOrderMessage:
		return m.Stock, true
	case AddOrderMPIDMessage:
		return m.Stock, true
	case TradeMessage:
		return m.Stock, true
	case CrossTradeMessage:
		return m.Stock, true
	case NOIIMessage:
		return m.Stock, true
	case RPIIMessage:
		return m.Stock, true
	case DirectListingCapitalRaiseMessage:
		return m.Stock, true
	default:
		return Symbol{}, false
	}
}

// OrderRefsOf returns the order reference(s) a follow-up message keys on.
// OrderReplaceMessage returns both the original (consumed) and new
// (produced) references.
func OrderRefsOf(msg Message) (old OrderReference, new_ OrderReference, hasNew bool) {
	switch m := msg.(type) {
	case OrderExecutedMessage:
		return m.OrderReferenceNumber, 0, false
	case OrderExecutedWithPriceMessage:
		return m.OrderReferenceNumber, 0, false
	case OrderCancelMessage:
		return m.OrderReferenceNumber, 0, false
	case OrderDeleteMessage:
		return m.OrderReferenceNumber, 0, false
	case OrderReplaceMessage:
		return m.OriginalOrderReferenceNumber, m.NewOrderReferenceNumber, true
	default:
		return 0, 0, false
	}
}

// NewOrderRefOf returns the order reference a newly-entered order message
// introduces.
func NewOrderRefOf(msg Message) (OrderReference, bool) {
	switch m := msg.(type) {
	case AddOrderMessage:
		return m.OrderReferenceNumber, true
	case AddOrderMPIDMessage:
		return m.OrderReferenceNumber, true
	default:
		return 0, false
	}
}

// MatchNumberOf returns the match number a trade message introduces, or a
// broken-trade message consumes.
func MatchNumberOf(msg Message) (uint64, bool) {
	switch m := msg.(type) {
	case TradeMessage:
		return m.MatchNumber, true
	case CrossTradeMessage:
		return m.MatchNumber, true
	case BrokenTradeMessage:
		return m.MatchNumber, true
	default:
		return 0, false
	}
}
