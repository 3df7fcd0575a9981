package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/repository"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/scanner"
	"github.com/sangkips/selfcheckout-kiosk/pkg/utils"
)

// KioskService drives one checkout session: the screen flow, the ledger,
// payment and the background scan worker.
//
// mu serializes foreground operations and scanner appends. Worker start and
// stop always happen after mu is released, because stopping waits for a scan
// loop that may itself be waiting on mu. ctl is held across a screen change
// and the worker start or stop that follows it, so lock order is ctl, mu.
type KioskService struct {
	ctl            sync.Mutex
	mu             sync.Mutex
	sessionID      uuid.UUID
	screens        *ScreenController
	ledger         *entity.Ledger
	catalog        repository.CatalogRepository
	printer        *PrinterService
	worker         *ScanWorker
	paymentMethod  enum.PaymentMethod
	paymentStatus  enum.PaymentStatus
	receiptPrinted bool
	lastReceipt    *entity.Receipt
	log            *zap.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewKioskService creates a session on the home screen. source may be nil,
// in which case continuous scanning is unavailable.
func NewKioskService(
	catalog repository.CatalogRepository,
	source scanner.Source,
	printerService *PrinterService,
	workerCfg ScanWorkerConfig,
	log *zap.Logger,
	m *metrics.Metrics,
) *KioskService {
	if log == nil {
		log = zap.NewNop()
	}
	if printerService == nil {
		printerService = NewPrinterService(nil, entity.ReceiptHeader{StoreName: "Self-Checkout"}, 40, log, m)
	}

	s := &KioskService{
		sessionID: uuid.New(),
		screens:   NewScreenController(),
		ledger:    entity.NewLedger(),
		catalog:   catalog,
		printer:   printerService,
		log:       log.Named("kiosk"),
		metrics:   m,
		now:       time.Now,
	}
	if source != nil {
		s.worker = NewScanWorker(source, catalog, s.screens, scanSink{s}, workerCfg, log, m)
	}
	return s
}

// scanSink lets the worker append through the session lock.
type scanSink struct{ s *KioskService }

func (k scanSink) AcceptScanned(item entity.Item) (bool, error) {
	s := k.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screens.Current() != enum.ScreenScanning {
		return false, nil
	}
	if err := s.ledger.AddItem(item); err != nil {
		return false, err
	}
	s.log.Info("scanned item",
		zap.String("barcode", item.Barcode),
		zap.String("name", item.Name),
		zap.String("price", item.Price.StringFixed(2)),
		zap.String("subtotal", s.ledger.Subtotal().StringFixed(2)),
	)
	return true, nil
}

// require checks the current screen against the operation's allowed set.
// Callers must hold mu.
func (s *KioskService) require(operation string, allowed ...enum.Screen) error {
	if s.screens.In(allowed...) {
		return nil
	}
	current := s.screens.Current()
	s.log.Warn("operation refused", zap.String("operation", operation), zap.Stringer("screen", current))
	return apperror.NewInvalidScreenTransition(operation, current.String())
}

func (s *KioskService) navigate(to enum.Screen) {
	from := s.screens.Current()
	_, _ = s.screens.NavigateTo(to)
	s.log.Info("screen changed", zap.Stringer("from", from), zap.Stringer("to", to))
}

func (s *KioskService) startWorker() {
	if s.worker != nil {
		s.worker.Start()
	}
}

func (s *KioskService) stopWorker() {
	if s.worker != nil {
		s.worker.Stop()
	}
}

// BeginShopping moves from home to scanning and starts the scanner when one is configured
func (s *KioskService) BeginShopping() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if err := s.require("begin shopping", enum.ScreenHome); err != nil {
		s.mu.Unlock()
		return err
	}
	s.navigate(enum.ScreenScanning)
	s.log.Info("shopping session started", zap.Stringer("session_id", s.sessionID))
	s.mu.Unlock()

	s.startWorker()
	return nil
}

// ScanItem places an already resolved item in the cart
func (s *KioskService) ScanItem(item entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("scan items", enum.ScreenScanning); err != nil {
		return err
	}
	if err := s.ledger.AddItem(item); err != nil {
		return err
	}
	s.metrics.ItemAdded("manual")
	s.log.Info("scanned item",
		zap.String("barcode", item.Barcode),
		zap.String("name", item.Name),
		zap.String("price", item.Price.StringFixed(2)),
	)
	return nil
}

// AddItemByBarcode looks a barcode up in the catalog and places the item in the cart
func (s *KioskService) AddItemByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("scan items", enum.ScreenScanning); err != nil {
		return nil, err
	}
	item, err := s.catalog.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		s.metrics.UnknownBarcode()
		s.log.Warn("barcode not found", zap.String("barcode", barcode))
		return nil, apperror.NewItemNotFound(barcode)
	}
	if err := s.ledger.AddItem(*item); err != nil {
		return nil, err
	}
	s.metrics.ItemAdded("manual")
	s.log.Info("scanned item",
		zap.String("barcode", item.Barcode),
		zap.String("name", item.Name),
		zap.String("price", item.Price.StringFixed(2)),
	)
	return item, nil
}

// RemoveLastItem pops the most recently scanned item
func (s *KioskService) RemoveLastItem() (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("remove items", enum.ScreenScanning, enum.ScreenDiscounts); err != nil {
		return nil, err
	}
	item, err := s.ledger.RemoveLast()
	if err != nil {
		return nil, err
	}
	s.log.Info("removed item", zap.String("name", item.Name), zap.String("price", item.Price.StringFixed(2)))
	return &item, nil
}

// RemoveItem removes the cart entry at index
func (s *KioskService) RemoveItem(index int) (*entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("remove items", enum.ScreenScanning, enum.ScreenDiscounts); err != nil {
		return nil, err
	}
	item, err := s.ledger.RemoveAt(index)
	if err != nil {
		return nil, err
	}
	s.log.Info("removed item", zap.Int("index", index), zap.String("name", item.Name))
	return &item, nil
}

// OpenDiscounts pauses scanning and shows the discounts screen
func (s *KioskService) OpenDiscounts() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if err := s.require("open discounts", enum.ScreenScanning, enum.ScreenDiscounts); err != nil {
		s.mu.Unlock()
		return err
	}
	s.navigate(enum.ScreenDiscounts)
	s.mu.Unlock()

	s.stopWorker()
	return nil
}

// ApplyDiscount records a discount whose amount is already computed
func (s *KioskService) ApplyDiscount(d entity.Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("apply discount", enum.ScreenDiscounts); err != nil {
		return err
	}
	return s.applyDiscount(d)
}

func (s *KioskService) applyDiscount(d entity.Discount) error {
	if err := s.ledger.ApplyDiscount(d); err != nil {
		return err
	}
	s.log.Info("applied discount", zap.String("code", d.Code), zap.String("amount", d.Amount.StringFixed(2)))
	return nil
}

// ApplyDiscountCode resolves a discount code against the current subtotal and applies it
func (s *KioskService) ApplyDiscountCode(ctx context.Context, code string) (*entity.Discount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("apply discount", enum.ScreenDiscounts); err != nil {
		return nil, err
	}
	dc, err := s.catalog.FindDiscountCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		s.log.Warn("invalid discount code", zap.String("code", code))
		return nil, apperror.NewInvalidDiscountCode(code)
	}
	d := dc.Resolve(s.ledger.Subtotal())
	if err := s.applyDiscount(d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ResumeScanning returns from discounts to scanning and restarts the scanner
func (s *KioskService) ResumeScanning() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if err := s.require("resume scanning", enum.ScreenDiscounts); err != nil {
		s.mu.Unlock()
		return err
	}
	s.navigate(enum.ScreenScanning)
	s.mu.Unlock()

	s.startWorker()
	return nil
}

// ProceedToPayment stops scanning and shows the payment selection screen
func (s *KioskService) ProceedToPayment() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if err := s.require("proceed to payment", enum.ScreenScanning, enum.ScreenDiscounts); err != nil {
		s.mu.Unlock()
		return err
	}
	s.navigate(enum.ScreenPayment)
	s.mu.Unlock()

	s.stopWorker()
	return nil
}

// SelectPayment records the payment method. Cash completes the transaction
// immediately; e-wallet and card wait for ProcessPayment.
func (s *KioskService) SelectPayment(method enum.PaymentMethod) (enum.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("select payment method", enum.ScreenPayment); err != nil {
		return s.screens.Current(), err
	}

	switch method {
	case enum.PaymentMethodEWallet:
		s.paymentMethod = method
		s.paymentStatus = enum.PaymentStatusUnset
		s.navigate(enum.ScreenScanQR)
	case enum.PaymentMethodCard:
		s.paymentMethod = method
		s.paymentStatus = enum.PaymentStatusUnset
		s.navigate(enum.ScreenCardReader)
	case enum.PaymentMethodCash:
		s.paymentMethod = method
		s.log.Info("cash payment requested", zap.String("amount", s.ledger.TotalDue().StringFixed(2)))
		s.complete()
	default:
		return s.screens.Current(), apperror.NewInvalidPaymentMethod(method.String())
	}
	return s.screens.Current(), nil
}

// SelectPaymentByName parses "e-wallet", "card" or "cash" and selects it
func (s *KioskService) SelectPaymentByName(name string) (enum.Screen, error) {
	method, ok := enum.ParsePaymentMethod(name)
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.require("select payment method", enum.ScreenPayment); err != nil {
			return s.screens.Current(), err
		}
		return s.screens.Current(), apperror.NewInvalidPaymentMethod(name)
	}
	return s.SelectPayment(method)
}

// complete marks the payment successful. Callers must hold mu.
func (s *KioskService) complete() {
	s.paymentStatus = enum.PaymentStatusSuccessful
	s.navigate(enum.ScreenComplete)
	s.metrics.TransactionCompleted(s.paymentMethod.String(), s.ledger.TotalDue().InexactFloat64())
	s.log.Info("payment successful, transaction complete",
		zap.String("method", s.paymentMethod.String()),
		zap.String("total", s.ledger.TotalDue().StringFixed(2)),
	)
}

// ProcessPayment reports the outcome of an e-wallet or card payment.
// A failed payment returns to the payment selection screen.
func (s *KioskService) ProcessPayment(success bool) (enum.PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("process payment", enum.ScreenScanQR, enum.ScreenCardReader); err != nil {
		return s.paymentStatus, err
	}
	if success {
		s.complete()
		return s.paymentStatus, nil
	}

	s.paymentStatus = enum.PaymentStatusFailed
	s.navigate(enum.ScreenPayment)
	s.metrics.PaymentFailed(s.paymentMethod.String())
	s.log.Warn("payment failed, select a payment method again", zap.String("method", s.paymentMethod.String()))
	return s.paymentStatus, nil
}

// PrintReceipt freezes the receipt, moves to the receipt screen and sends it
// to the printer. A printer failure is returned together with the receipt
// and does not undo the transition.
func (s *KioskService) PrintReceipt() (*entity.Receipt, error) {
	s.mu.Lock()
	if err := s.require("print receipt", enum.ScreenComplete); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	snap := s.ledger.Snapshot()
	now := s.now()
	receipt := &entity.Receipt{
		ReceiptNo:     utils.GenerateReceiptNo(now),
		SessionID:     s.sessionID,
		Header:        s.printer.Header(),
		Items:         snap.Items,
		Subtotal:      snap.Subtotal,
		Discounts:     snap.Discounts,
		TotalDiscount: snap.TotalDiscount,
		Total:         snap.TotalDue(),
		PaymentMethod: s.paymentMethod,
		PaymentStatus: s.paymentStatus,
		Timestamp:     now.Format(time.RFC3339),
	}
	if snap.RawTotalDue().IsNegative() {
		s.log.Warn("discounts exceed subtotal, receipt total clamped to zero",
			zap.String("raw_total", snap.RawTotalDue().StringFixed(2)))
	}
	s.receiptPrinted = true
	s.lastReceipt = receipt
	s.navigate(enum.ScreenReceipt)
	s.mu.Unlock()

	if err := s.printer.Print(receipt); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// LastReceipt returns the most recently printed receipt, or nil.
// It survives StartNewTransaction so it can be reprinted.
func (s *KioskService) LastReceipt() *entity.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReceipt
}

// StartNewTransaction stops scanning, clears the session and returns home
func (s *KioskService) StartNewTransaction() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.stopWorker()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.log.Info("new transaction started", zap.Stringer("session_id", s.sessionID))
	return nil
}

// Cancel stops scanning, clears the session and returns home
func (s *KioskService) Cancel() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.stopWorker()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.log.Info("action cancelled, returned to home screen")
	return nil
}

// reset clears the ledger and payment state. Callers must hold mu.
func (s *KioskService) reset() {
	s.ledger.Reset()
	s.paymentMethod = enum.PaymentMethodNone
	s.paymentStatus = enum.PaymentStatusUnset
	s.receiptPrinted = false
	s.sessionID = uuid.New()
	s.navigate(enum.ScreenHome)
}

// StartContinuousScanning starts the background scanner on the scanning screen
func (s *KioskService) StartContinuousScanning() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	if err := s.require("start scanning", enum.ScreenScanning); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if s.worker == nil {
		return apperror.ErrScannerUnavailable
	}
	s.worker.Start()
	return nil
}

// StopContinuousScanning stops the background scanner; it is a no-op when idle
func (s *KioskService) StopContinuousScanning() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopWorker()
}

// ScannerActive reports whether the background scanner is running
func (s *KioskService) ScannerActive() bool {
	return s.worker != nil && s.worker.IsActive()
}

// CurrentScreen returns the session's current screen
func (s *KioskService) CurrentScreen() enum.Screen {
	return s.screens.Current()
}

// IsTransactionComplete reports whether the receipt screen has been reached
func (s *KioskService) IsTransactionComplete() bool {
	return s.screens.Current() == enum.ScreenReceipt
}

// GetKioskState returns a detached snapshot of the session for display
func (s *KioskService) GetKioskState() *entity.KioskState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.Snapshot()
	screen := s.screens.Current()
	return &entity.KioskState{
		SessionID:           s.sessionID,
		CurrentScreen:       screen,
		CartItems:           len(snap.Items),
		CartContents:        snap.Items,
		Subtotal:            snap.Subtotal,
		DiscountsApplied:    len(snap.Discounts),
		DiscountDetails:     snap.Discounts,
		TotalDiscount:       snap.TotalDiscount,
		TotalDue:            snap.TotalDue(),
		PaymentMethod:       s.paymentMethod,
		PaymentStatus:       s.paymentStatus,
		ReceiptPrinted:      s.receiptPrinted,
		ScannerActive:       s.ScannerActive(),
		TransactionComplete: screen == enum.ScreenReceipt,
	}
}

// Shutdown stops the background scanner before the process exits
func (s *KioskService) Shutdown() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopWorker()
	s.log.Info("kiosk shut down")
}
