package decoder

import (
	"encoding/binary"

	"itch50/internal/domain/entity/itch"
)

// headerWidth is the offset of the first body byte: the tag byte plus the
// 10-byte common header (stock locate, tracking number, split 48-bit
// timestamp).
const headerWidth = 11

func readHeader(frame []byte) (itch.MessageHeader, []byte) {
	stockLocate := binary.BigEndian.Uint16(frame[1:3])
	tracking := binary.BigEndian.Uint16(frame[3:5])
	tsHigh := binary.BigEndian.Uint16(frame[5:7])
	tsLow := binary.BigEndian.Uint32(frame[7:11])
	ts := uint64(tsHigh)<<32 | uint64(tsLow)
	return itch.MessageHeader{
		StockLocate:    stockLocate,
		TrackingNumber: tracking,
		Timestamp:      ts,
	}, frame[headerWidth:]
}

func readSymbol(b []byte) itch.Symbol {
	var s itch.Symbol
	copy(s[:], b)
	return s
}

func readMPID(b []byte) itch.MPID {
	var m itch.MPID
	copy(m[:], b)
	return m
}

func decodeMessage(tag byte, frame []byte) (itch.Message, error) {
	header, body := readHeader(frame)
	switch tag {
	case itch.TagSystemEvent:
		return itch.SystemEventMessage{MessageHeader: header, EventCode: body[0]}, nil
	case itch.TagStockDirectory:
		return itch.StockDirectoryMessage{
			MessageHeader:               header,
			Stock:                       readSymbol(body[0:8]),
			MarketCategory:              body[8],
			FinancialStatusIndicator:    body[9],
			RoundLotSize:                binary.BigEndian.Uint32(body[10:14]),
			RoundLotsOnly:               body[14],
			IssueClassification:         body[15],
			IssueSubType:                [2]byte{body[16], body[17]},
			Authenticity:                body[18],
			ShortSaleThresholdIndicator: body[19],
			IPOFlag:                     body[20],
			LULDReferencePriceTier:      body[21],
			ETPFlag:                     body[22],
			ETPLeverageFactor:           binary.BigEndian.Uint32(body[23:27]),
			InverseIndicator:            body[27],
		}, nil
	case itch.TagStockTradingAction:
		return itch.StockTradingActionMessage{
			MessageHeader: header,
			Stock:         readSymbol(body[0:8]),
			TradingState:  body[8],
			Reserved:      body[9],
			Reason:        [4]byte{body[10], body[11], body[12], body[13]},
		}, nil
	case itch.TagRegSHORestriction:
		return itch.RegSHORestrictionMessage{
			MessageHeader: header,
			Stock:         readSymbol(body[0:8]),
			RegSHOAction:  body[8],
		}, nil
	case itch.TagMarketParticipantPos:
		return itch.MarketParticipantPositionMessage{
			MessageHeader:          header,
			MPID:                   readMPID(body[0:4]),
			Stock:                  readSymbol(body[4:12]),
			PrimaryMarketMaker:     body[12],
			MarketMakerMode:        body[13],
			MarketParticipantState: body[14],
		}, nil
	case itch.TagMWCBDeclineLevel:
		return itch.MWCBDeclineLevelMessage{
			MessageHeader: header,
			Level1:        binary.BigEndian.Uint64(body[0:8]),
			Level2:        binary.BigEndian.Uint64(body[8:16]),
			Level3:        binary.BigEndian.Uint64(body[16:24]),
		}, nil
	case itch.TagMWCBStatus:
		return itch.MWCBStatusMessage{MessageHeader: header, BreachedLevel: body[0]}, nil
	case itch.TagIPOQuotingPeriodUpdate:
		return itch.IPOQuotingPeriodUpdateMessage{
			MessageHeader:                header,
			Stock:                        readSymbol(body[0:8]),
			IPOQuotationReleaseTime:      binary.BigEndian.Uint32(body[8:12]),
			IPOQuotationReleaseQualifier: body[12],
			IPOPrice:                     itch.Price(binary.BigEndian.Uint32(body[13:17])),
		}, nil
	case itch.TagLULDAuctionCollar:
		return itch.LULDAuctionCollarMessage{
			MessageHeader:               header,
			Stock:                       readSymbol(body[0:8]),
			AuctionCollarReferencePrice: itch.Price(binary.BigEndian.Uint32(body[8:12])),
			UpperAuctionCollarPrice:     itch.Price(binary.BigEndian.Uint32(body[12:16])),
			LowerAuctionCollarPrice:     itch.Price(binary.BigEndian.Uint32(body[16:20])),
			AuctionCollarExtension:      binary.BigEndian.Uint32(body[20:24]),
		}, nil
	case itch.TagOperationalHalt:
		return itch.OperationalHaltMessage{
			MessageHeader:         header,
			Stock:                 readSymbol(body[0:8]),
			MarketCode:            body[8],
			OperationalHaltAction: body[9],
		}, nil
	case itch.TagAddOrder:
		return itch.AddOrderMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			BuySellIndicator:     itch.Side(body[8]),
			Shares:               binary.BigEndian.Uint32(body[9:13]),
			Stock:                readSymbol(body[13:21]),
			Price:                itch.Price(binary.BigEndian.Uint32(body[21:25])),
		}, nil
	case itch.TagAddOrderMPID:
		return itch.AddOrderMPIDMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			BuySellIndicator:     itch.Side(body[8]),
			Shares:               binary.BigEndian.Uint32(body[9:13]),
			Stock:                readSymbol(body[13:21]),
			Price:                itch.Price(binary.BigEndian.Uint32(body[21:25])),
			Attribution:          readMPID(body[25:29]),
		}, nil
	case itch.TagOrderExecuted:
		return itch.OrderExecutedMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			ExecutedShares:       binary.BigEndian.Uint32(body[8:12]),
			MatchNumber:          binary.BigEndian.Uint64(body[12:20]),
		}, nil
	case itch.TagOrderExecutedWithPrice:
		return itch.OrderExecutedWithPriceMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			ExecutedShares:       binary.BigEndian.Uint32(body[8:12]),
			MatchNumber:          binary.BigEndian.Uint64(body[12:20]),
			Printable:            body[20],
			ExecutionPrice:       itch.Price(binary.BigEndian.Uint32(body[21:25])),
		}, nil
	case itch.TagOrderCancel:
		return itch.OrderCancelMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			CancelledShares:      binary.BigEndian.Uint32(body[8:12]),
		}, nil
	case itch.TagOrderDelete:
		return itch.OrderDeleteMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
		}, nil
	case itch.TagOrderReplace:
		return itch.OrderReplaceMessage{
			MessageHeader:                header,
			OriginalOrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			NewOrderReferenceNumber:      itch.OrderReference(binary.BigEndian.Uint64(body[8:16])),
			Shares:                       binary.BigEndian.Uint32(body[16:20]),
			Price:                        itch.Price(binary.BigEndian.Uint32(body[20:24])),
		}, nil
	case itch.TagTrade:
		return itch.TradeMessage{
			MessageHeader:        header,
			OrderReferenceNumber: itch.OrderReference(binary.BigEndian.Uint64(body[0:8])),
			BuySellIndicator:     itch.Side(body[8]),
			Shares:               binary.BigEndian.Uint32(body[9:13]),
			Stock:                readSymbol(body[13:21]),
			Price:                itch.Price(binary.BigEndian.Uint32(body[21:25])),
			MatchNumber:          binary.BigEndian.Uint64(body[25:33]),
		}, nil
	case itch.TagCrossTrade:
		return itch.CrossTradeMessage{
			MessageHeader: header,
			Shares:        binary.BigEndian.Uint64(body[0:8]),
			Stock:         readSymbol(body[8:16]),
			CrossPrice:    itch.Price(binary.BigEndian.Uint32(body[16:20])),
			MatchNumber:   binary.BigEndian.Uint64(body[20:28]),
			CrossType:     body[28],
		}, nil
	case itch.TagBrokenTrade:
		return itch.BrokenTradeMessage{
			MessageHeader: header,
			MatchNumber:   binary.BigEndian.Uint64(body[0:8]),
		}, nil
	case itch.TagNOII:
		return itch.NOIIMessage{
			MessageHeader:           header,
			PairedShares:            binary.BigEndian.Uint64(body[0:8]),
			ImbalanceShares:         binary.BigEndian.Uint64(body[8:16]),
			ImbalanceDirection:      body[16],
			Stock:                   readSymbol(body[17:25]),
			FarPrice:                itch.Price(binary.BigEndian.Uint32(body[25:29])),
			NearPrice:               itch.Price(binary.BigEndian.Uint32(body[29:33])),
			CurrentReferencePrice:   itch.Price(binary.BigEndian.Uint32(body[33:37])),
			CrossType:               body[37],
			PriceVariationIndicator: body[38],
		}, nil
	case itch.TagRPII:
		return itch.RPIIMessage{
			MessageHeader: header,
			Stock:         readSymbol(body[0:8]),
			InterestFlag:  body[8],
		}, nil
	case itch.TagDirectListingCapitalRaise:
		return itch.DirectListingCapitalRaiseMessage{
			MessageHeader:         header,
			Stock:                 readSymbol(body[0:8]),
			OpenEligibilityStatus: body[8],
			MinimumAllowablePrice: itch.Price(binary.BigEndian.Uint32(body[9:13])),
			MaximumAllowablePrice: itch.Price(binary.BigEndian.Uint32(body[13:17])),
			NearExecutionPrice:    itch.Price(binary.BigEndian.Uint32(body[17:21])),
			NearExecutionTime:     binary.BigEndian.Uint64(body[21:29]),
			LowerPriceRangeCollar: itch.Price(binary.BigEndian.Uint32(body[29:33])),
			UpperPriceRangeCollar: itch.Price(binary.BigEndian.Uint32(body[33:37])),
		}, nil
	default:
		return nil, &UnknownTypeError{Tag: tag}
	}
}
