package entity

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

func item(name, price string) Item {
	return Item{Barcode: name, Name: name, Price: decimal.RequireFromString(price)}
}

func sumPrices(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
	}
	return sum
}

func Test_Ledger_SubtotalTracksEveryMutation(t *testing.T) {
	l := NewLedger()
	check := func() {
		snap := l.Snapshot()
		assert.True(t, snap.Subtotal.Equal(sumPrices(snap.Items)), "subtotal %s", snap.Subtotal)
		assert.True(t, l.Consistent())
	}

	require.NoError(t, l.AddItem(item("bread", "2.99")))
	check()
	require.NoError(t, l.AddItem(item("milk", "3.49")))
	check()
	require.NoError(t, l.AddItem(item("eggs", "4.99")))
	check()

	removed, err := l.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, "milk", removed.Name)
	check()

	removed, err = l.RemoveLast()
	require.NoError(t, err)
	assert.Equal(t, "eggs", removed.Name)
	check()

	assert.Equal(t, "2.99", l.Subtotal().StringFixed(2))
	assert.Equal(t, 1, l.Len())
}

func Test_Ledger_RemoveAt_OutOfRangeLeavesCartUnchanged(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddItem(item("bread", "2.99")))
	require.NoError(t, l.AddItem(item("milk", "3.49")))

	for _, idx := range []int{5, 2, -1} {
		_, err := l.RemoveAt(idx)
		assert.ErrorIs(t, err, apperror.ErrIndexOutOfRange)
	}

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "6.48", l.Subtotal().StringFixed(2))
}

func Test_Ledger_RemoveLast_EmptyCart(t *testing.T) {
	_, err := NewLedger().RemoveLast()

	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func Test_Ledger_RejectsNegativeAmounts(t *testing.T) {
	l := NewLedger()

	assert.ErrorIs(t, l.AddItem(item("refund", "-1.00")), apperror.ErrInvalidItem)
	assert.ErrorIs(t, l.ApplyDiscount(Discount{Code: "X", Amount: decimal.RequireFromString("-0.01")}), apperror.ErrInvalidDiscount)
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.TotalDiscount().IsZero())
}

func Test_Ledger_TotalDue(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddItem(item("milk", "3.49")))
	require.NoError(t, l.ApplyDiscount(Discount{Code: "SAVE10", Amount: decimal.RequireFromString("1.00")}))

	assert.Equal(t, "1.00", l.TotalDiscount().StringFixed(2))
	assert.Equal(t, "2.49", l.TotalDue().StringFixed(2))
	assert.True(t, l.TotalDue().Equal(l.Subtotal().Sub(l.TotalDiscount())))
}

func Test_Ledger_TotalDue_ClampsAtZeroButKeepsRawValue(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddItem(item("bananas", "1.99")))
	require.NoError(t, l.ApplyDiscount(Discount{Code: "SPRING25", Amount: decimal.RequireFromString("2.50")}))

	assert.Equal(t, "-0.51", l.RawTotalDue().StringFixed(2))
	assert.True(t, l.TotalDue().IsZero())
	assert.True(t, l.Snapshot().TotalDue().IsZero())
}

func Test_Ledger_DiscountAmountDoesNotFollowCartChanges(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddItem(item("coffee", "5.99")))
	require.NoError(t, l.AddItem(item("cereal", "4.49")))

	code := DiscountCode{Code: "5PERCENTOFF", Type: enum.DiscountTypePercentage, Percent: 5}
	require.NoError(t, l.ApplyDiscount(code.Resolve(l.Subtotal())))

	_, err := l.RemoveLast()
	require.NoError(t, err)

	assert.Equal(t, "0.52", l.TotalDiscount().StringFixed(2))
	assert.Equal(t, "5.47", l.TotalDue().StringFixed(2))
}

func Test_Ledger_SnapshotIsDetached(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddItem(item("milk", "3.49")))
	require.NoError(t, l.ApplyDiscount(Discount{Code: "SAVE10", Amount: decimal.NewFromInt(1)}))

	snap := l.Snapshot()
	l.Reset()

	assert.Len(t, snap.Items, 1)
	assert.Len(t, snap.Discounts, 1)
	assert.Equal(t, "3.49", snap.Subtotal.StringFixed(2))
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Subtotal().IsZero())
	assert.True(t, l.TotalDiscount().IsZero())
}

func Test_Ledger_ConcurrentMutationsStayConsistent(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = l.AddItem(item("milk", "3.49"))
				if i%3 == 0 {
					_, _ = l.RemoveLast()
				}
			}
		}()
	}
	wg.Wait()

	assert.True(t, l.Consistent())
	snap := l.Snapshot()
	assert.True(t, snap.Subtotal.Equal(sumPrices(snap.Items)))
}
