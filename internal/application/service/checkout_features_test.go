package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/infrastructure/repository"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
	"github.com/sangkips/selfcheckout-kiosk/pkg/scanner"
)

type checkoutTestContext struct {
	kiosk   *service.KioskService
	source  scanner.Source
	receipt *entity.Receipt
	err     error
}

func (c *checkoutTestContext) reset() {
	if c.kiosk != nil {
		c.kiosk.Shutdown()
	}
	c.kiosk = nil
	c.source = nil
	c.receipt = nil
	c.err = nil
}

func (c *checkoutTestContext) session() *service.KioskService {
	if c.kiosk == nil {
		cfg := service.ScanWorkerConfig{
			MinInterval:  time.Millisecond,
			MaxInterval:  2 * time.Millisecond,
			BatchSize:    5,
			BaggingPause: time.Millisecond,
			IdlePoll:     time.Millisecond,
			RetryDelay:   time.Millisecond,
			StopGrace:    time.Second,
		}
		c.kiosk = service.NewKioskService(repository.NewDefaultMemoryCatalogRepository(), c.source, nil, cfg, nil, nil)
	}
	return c.kiosk
}

// Given steps

func (c *checkoutTestContext) aKioskWithTheDefaultCatalog() error {
	return nil
}

func (c *checkoutTestContext) theScannerWillRead(table *godog.Table) error {
	var barcodes []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // skip header
		}
		barcodes = append(barcodes, row.Cells[0].Value)
	}
	c.source = scanner.NewScriptedSource(barcodes...)
	return nil
}

// When steps

func (c *checkoutTestContext) iBeginShopping() error {
	c.err = c.session().BeginShopping()
	return nil
}

func (c *checkoutTestContext) iScanBarcode(barcode string) error {
	_, c.err = c.session().AddItemByBarcode(context.Background(), barcode)
	return nil
}

func (c *checkoutTestContext) iRemoveTheItemAtIndex(index int) error {
	_, c.err = c.session().RemoveItem(index)
	return nil
}

func (c *checkoutTestContext) iRemoveTheLastItem() error {
	_, c.err = c.session().RemoveLastItem()
	return nil
}

func (c *checkoutTestContext) iOpenDiscounts() error {
	c.err = c.session().OpenDiscounts()
	return nil
}

func (c *checkoutTestContext) iApplyDiscountCode(code string) error {
	_, c.err = c.session().ApplyDiscountCode(context.Background(), code)
	return nil
}

func (c *checkoutTestContext) iResumeScanning() error {
	c.err = c.session().ResumeScanning()
	return nil
}

func (c *checkoutTestContext) iProceedToPayment() error {
	c.err = c.session().ProceedToPayment()
	return nil
}

func (c *checkoutTestContext) iPayWith(method string) error {
	_, c.err = c.session().SelectPaymentByName(method)
	return nil
}

func (c *checkoutTestContext) thePaymentIsApproved() error {
	_, c.err = c.session().ProcessPayment(true)
	return nil
}

func (c *checkoutTestContext) thePaymentIsDeclined() error {
	_, c.err = c.session().ProcessPayment(false)
	return nil
}

func (c *checkoutTestContext) iPrintTheReceipt() error {
	c.receipt, c.err = c.session().PrintReceipt()
	return nil
}

func (c *checkoutTestContext) iStartANewTransaction() error {
	c.err = c.session().StartNewTransaction()
	return nil
}

func (c *checkoutTestContext) iCancel() error {
	c.err = c.session().Cancel()
	return nil
}

// Then steps

func (c *checkoutTestContext) theScreenIs(name string) error {
	if got := c.session().CurrentScreen().String(); got != name {
		return fmt.Errorf("expected screen %q, got %q", name, got)
	}
	return nil
}

func expectAmount(label string, got decimal.Decimal, want string) error {
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected %s %s, got %s", label, want, got.StringFixed(2))
	}
	return nil
}

func (c *checkoutTestContext) theSubtotalIs(amount string) error {
	return expectAmount("subtotal", c.session().GetKioskState().Subtotal, amount)
}

func (c *checkoutTestContext) theTotalDiscountIs(amount string) error {
	return expectAmount("total discount", c.session().GetKioskState().TotalDiscount, amount)
}

func (c *checkoutTestContext) theTotalDueIs(amount string) error {
	return expectAmount("total due", c.session().GetKioskState().TotalDue, amount)
}

func (c *checkoutTestContext) theReceiptTotalIs(amount string) error {
	if c.receipt == nil {
		return errors.New("no receipt was printed")
	}
	return expectAmount("receipt total", c.receipt.Total, amount)
}

func (c *checkoutTestContext) thePaymentStatusIs(status string) error {
	if got := c.session().GetKioskState().PaymentStatus.String(); got != status {
		return fmt.Errorf("expected payment status %q, got %q", status, got)
	}
	return nil
}

func (c *checkoutTestContext) theCartIsEmpty() error {
	return c.theCartHasItems(0)
}

func (c *checkoutTestContext) theCartHasItems(n int) error {
	if got := c.session().GetKioskState().CartItems; got != n {
		return fmt.Errorf("expected %d cart items, got %d", n, got)
	}
	return nil
}

func (c *checkoutTestContext) theCartEventuallyHasItems(n int) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.session().GetKioskState().CartItems == n {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return c.theCartHasItems(n)
}

func (c *checkoutTestContext) theScannerIsActive() error {
	if !c.session().ScannerActive() {
		return errors.New("expected the scanner to be active")
	}
	return nil
}

func (c *checkoutTestContext) theScannerIsInactive() error {
	if c.session().ScannerActive() {
		return errors.New("expected the scanner to be inactive")
	}
	return nil
}

func (c *checkoutTestContext) theOperationFailsWith(kind string) error {
	if c.err == nil {
		return errors.New("expected the operation to fail")
	}
	var appErr *apperror.AppError
	if !errors.As(c.err, &appErr) {
		return fmt.Errorf("expected an application error, got %v", c.err)
	}
	if string(appErr.Kind) != kind {
		return fmt.Errorf("expected %q, got %q (%s)", kind, appErr.Kind, appErr.Message)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a kiosk with the default catalog$`, tc.aKioskWithTheDefaultCatalog)
	ctx.Step(`^the scanner will read:$`, tc.theScannerWillRead)

	// When steps
	ctx.Step(`^I begin shopping$`, tc.iBeginShopping)
	ctx.Step(`^I scan barcode "([^"]*)"$`, tc.iScanBarcode)
	ctx.Step(`^I remove the item at index (\d+)$`, tc.iRemoveTheItemAtIndex)
	ctx.Step(`^I remove the last item$`, tc.iRemoveTheLastItem)
	ctx.Step(`^I open discounts$`, tc.iOpenDiscounts)
	ctx.Step(`^I apply discount code "([^"]*)"$`, tc.iApplyDiscountCode)
	ctx.Step(`^I resume scanning$`, tc.iResumeScanning)
	ctx.Step(`^I proceed to payment$`, tc.iProceedToPayment)
	ctx.Step(`^I pay with "([^"]*)"$`, tc.iPayWith)
	ctx.Step(`^the payment is approved$`, tc.thePaymentIsApproved)
	ctx.Step(`^the payment is declined$`, tc.thePaymentIsDeclined)
	ctx.Step(`^I print the receipt$`, tc.iPrintTheReceipt)
	ctx.Step(`^I start a new transaction$`, tc.iStartANewTransaction)
	ctx.Step(`^I cancel$`, tc.iCancel)

	// Then steps
	ctx.Step(`^the screen is "([^"]*)"$`, tc.theScreenIs)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the total discount is "([^"]*)"$`, tc.theTotalDiscountIs)
	ctx.Step(`^the total due is "([^"]*)"$`, tc.theTotalDueIs)
	ctx.Step(`^the receipt total is "([^"]*)"$`, tc.theReceiptTotalIs)
	ctx.Step(`^the payment status is "([^"]*)"$`, tc.thePaymentStatusIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart has (\d+) items$`, tc.theCartHasItems)
	ctx.Step(`^the cart eventually has (\d+) items$`, tc.theCartEventuallyHasItems)
	ctx.Step(`^the scanner is active$`, tc.theScannerIsActive)
	ctx.Step(`^the scanner is inactive$`, tc.theScannerIsInactive)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
