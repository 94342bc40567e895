package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsDuplicateRef(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	err := ob.Add(1, Bid, 1000, 50, 2)
	require.Error(t, err)
	var dupErr *DuplicateRefError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, OrderReference(1), dupErr.Ref)
}

func TestExecuteUnknownRef(t *testing.T) {
	ob := NewOrderBook("AAPL")
	err := ob.Execute(99, 10, 1)
	var unknownErr *UnknownRefError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestExecuteOverVolumeRejected(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Ask, 1000, 100, 1))

	err := ob.Execute(1, 150, 2)
	var overErr *OverExecutedError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, Volume(150), overErr.Requested)
	assert.Equal(t, Volume(100), overErr.Resting)

	// the rejected execution must not have mutated the resting order
	order, ok := ob.Order(1)
	require.True(t, ok)
	assert.Equal(t, Volume(100), order.Volume)
}

func TestExecutePartialLeavesResting(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	require.NoError(t, ob.Execute(1, 40, 2))

	order, ok := ob.Order(1)
	require.True(t, ok)
	assert.Equal(t, Volume(60), order.Volume)

	price, vol, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(1000), price)
	assert.Equal(t, Volume(60), vol)
}

func TestExecuteFullRemovesOrderAndEmptyLevel(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	require.NoError(t, ob.Execute(1, 100, 2))

	assert.False(t, ob.Has(1))
	_, _, ok := ob.BestBid()
	assert.False(t, ok, "level should be removed once its only order is fully executed")
}

func TestExecuteWithPriceDoesNotMoveRestingPrice(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Ask, 1000, 100, 1))

	require.NoError(t, ob.ExecuteWithPrice(1, 30, 2))

	order, ok := ob.Order(1)
	require.True(t, ok)
	assert.Equal(t, Price(1000), order.Price, "print price must never replace the resting price")
	assert.Equal(t, Volume(70), order.Volume)
}

func TestCancelOverVolumeRejected(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	err := ob.Cancel(1, 200, 2)
	var overErr *OverCancelledError
	require.ErrorAs(t, err, &overErr)

	order, _ := ob.Order(1)
	assert.Equal(t, Volume(100), order.Volume)
}

func TestCancelToZeroRemovesOrder(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	require.NoError(t, ob.Cancel(1, 100, 2))
	assert.False(t, ob.Has(1))
}

func TestDeleteUnknownRef(t *testing.T) {
	ob := NewOrderBook("AAPL")
	err := ob.Delete(42, 1)
	var unknownErr *UnknownRefError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestDeleteRemovesRegardlessOfRemainingVolume(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Ask, 1000, 500, 1))

	require.NoError(t, ob.Delete(1, 2))
	assert.False(t, ob.Has(1))
}

func TestPriceTimePriorityOrdering(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))
	require.NoError(t, ob.Add(2, Bid, 1010, 100, 2))
	require.NoError(t, ob.Add(3, Bid, 990, 100, 3))

	// best bid is the highest price, regardless of arrival order
	price, _, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(1010), price)

	// within a level, orders queue strictly FIFO by arrival
	require.NoError(t, ob.Add(4, Bid, 1000, 50, 4))
	assert.Equal(t, []OrderReference{1, 4}, ob.OrdersAt(Bid, 1000))
}

func TestAskSideOrdersAscending(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Ask, 1020, 100, 1))
	require.NoError(t, ob.Add(2, Ask, 1005, 100, 2))

	price, _, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(1005), price, "best ask is the lowest resting price")
}

func TestReplaceUnknownOrigRef(t *testing.T) {
	ob := NewOrderBook("AAPL")
	err := ob.Replace(1, 2, 100, 1000, 1)
	var unknownErr *UnknownRefError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestReplaceRejectsDuplicateNewRef(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))
	require.NoError(t, ob.Add(2, Bid, 1000, 100, 2))

	err := ob.Replace(1, 2, 50, 1000, 3)
	var dupErr *DuplicateRefError
	assert.ErrorAs(t, err, &dupErr)
	// the failed replace must not have removed the original order
	assert.True(t, ob.Has(1))
}

func TestReplaceInheritsNewTimestampAndLosesPriority(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))
	require.NoError(t, ob.Add(2, Bid, 1000, 100, 2))

	// order 1 arrived first; replacing it should push the replacement to
	// the back of the queue even though the price is unchanged
	require.NoError(t, ob.Replace(1, 10, 80, 1000, 5))

	assert.False(t, ob.Has(1))
	order, ok := ob.Order(10)
	require.True(t, ok)
	assert.Equal(t, Timestamp(5), order.Timestamp)
	assert.Equal(t, Volume(80), order.Volume)
	assert.Equal(t, []OrderReference{2, 10}, ob.OrdersAt(Bid, 1000))
}

func TestReplaceCanChangePrice(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))

	require.NoError(t, ob.Replace(1, 2, 100, 1010, 2))

	price, _, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(1010), price)
}

func TestSnapshotRendersBothSidesBestFirst(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))
	require.NoError(t, ob.Add(2, Bid, 990, 200, 2))
	require.NoError(t, ob.Add(3, Ask, 1020, 50, 3))
	require.NoError(t, ob.Add(4, Ask, 1030, 50, 4))

	snap := ob.Snapshot(0)
	require.Len(t, snap.Bids, 2)
	require.Len(t, snap.Asks, 2)
	assert.Equal(t, Price(1000), snap.Bids[0].Price)
	assert.Equal(t, Price(990), snap.Bids[1].Price)
	assert.Equal(t, Price(1020), snap.Asks[0].Price)
	assert.Equal(t, Price(1030), snap.Asks[1].Price)
}

func TestSnapshotDepthLimitsLevels(t *testing.T) {
	ob := NewOrderBook("AAPL")
	require.NoError(t, ob.Add(1, Bid, 1000, 100, 1))
	require.NoError(t, ob.Add(2, Bid, 990, 100, 2))
	require.NoError(t, ob.Add(3, Bid, 980, 100, 3))

	snap := ob.Snapshot(2)
	assert.Len(t, snap.Bids, 2)
	assert.Equal(t, Price(1000), snap.Bids[0].Price)
	assert.Equal(t, Price(990), snap.Bids[1].Price)
}
