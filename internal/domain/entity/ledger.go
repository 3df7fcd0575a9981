package entity

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

// Ledger owns the cart, running subtotal and applied discounts of a session.
// It is the one resource shared between the foreground flow and the scan
// worker, so every method takes the ledger lock.
type Ledger struct {
	mu            sync.RWMutex
	cart          []Item
	subtotal      decimal.Decimal
	discounts     []Discount
	totalDiscount decimal.Decimal
}

// LedgerSnapshot is a detached copy of the ledger's contents.
type LedgerSnapshot struct {
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discounts     []Discount      `json:"discounts"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

// RawTotalDue is subtotal minus total discount, negative when discounts exceed the subtotal.
func (s LedgerSnapshot) RawTotalDue() decimal.Decimal {
	return s.Subtotal.Sub(s.TotalDiscount)
}

// TotalDue is the amount the customer owes, never below zero.
func (s LedgerSnapshot) TotalDue() decimal.Decimal {
	return clampZero(s.RawTotalDue())
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddItem appends an item to the cart and grows the subtotal by its price.
func (l *Ledger) AddItem(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cart = append(l.cart, item)
	l.subtotal = l.subtotal.Add(item.Price)
	return nil
}

// RemoveLast pops the most recently added item.
func (l *Ledger) RemoveLast() (Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.cart) == 0 {
		return Item{}, apperror.ErrEmptyCart
	}
	return l.removeAt(len(l.cart) - 1), nil
}

// RemoveAt removes the item at index, preserving the order of the rest.
func (l *Ledger) RemoveAt(index int) (Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.cart) {
		return Item{}, apperror.NewIndexOutOfRange(index, len(l.cart))
	}
	return l.removeAt(index), nil
}

func (l *Ledger) removeAt(index int) Item {
	item := l.cart[index]
	l.cart = append(l.cart[:index:index], l.cart[index+1:]...)
	l.subtotal = l.subtotal.Sub(item.Price)
	return item
}

// ApplyDiscount records an already-computed discount. Its amount never changes
// afterwards, even if the cart does.
func (l *Ledger) ApplyDiscount(d Discount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.discounts = append(l.discounts, d)
	l.totalDiscount = l.totalDiscount.Add(d.Amount)
	return nil
}

// Subtotal returns the running sum of cart prices.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.subtotal
}

// TotalDiscount returns the sum of applied discount amounts.
func (l *Ledger) TotalDiscount() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalDiscount
}

// RawTotalDue returns subtotal minus total discount without clamping.
func (l *Ledger) RawTotalDue() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.subtotal.Sub(l.totalDiscount)
}

// TotalDue returns the amount owed, clamped at zero.
func (l *Ledger) TotalDue() decimal.Decimal {
	return clampZero(l.RawTotalDue())
}

// Len returns the number of items in the cart.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cart)
}

// Snapshot copies the ledger so the result can outlive a Reset.
func (l *Ledger) Snapshot() LedgerSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]Item, len(l.cart))
	copy(items, l.cart)
	discounts := make([]Discount, len(l.discounts))
	copy(discounts, l.discounts)

	return LedgerSnapshot{
		Items:         items,
		Subtotal:      l.subtotal,
		Discounts:     discounts,
		TotalDiscount: l.totalDiscount,
	}
}

// Consistent recomputes both totals from scratch and compares them with the
// incrementally maintained values.
func (l *Ledger) Consistent() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := decimal.Zero
	for _, item := range l.cart {
		sum = sum.Add(item.Price)
	}
	discounts := decimal.Zero
	for _, d := range l.discounts {
		discounts = discounts.Add(d.Amount)
	}
	return sum.Equal(l.subtotal) && discounts.Equal(l.totalDiscount)
}

// Reset empties the cart and discounts.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cart = nil
	l.subtotal = decimal.Zero
	l.discounts = nil
	l.totalDiscount = decimal.Zero
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
