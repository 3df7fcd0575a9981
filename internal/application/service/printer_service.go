package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/printer"
)

// PrinterService handles receipt formatting and printing.
type PrinterService struct {
	printer printer.Printer
	header  entity.ReceiptHeader
	width   int
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	header entity.ReceiptHeader,
	width int,
	log *zap.Logger,
	m *metrics.Metrics,
) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer: p,
		header:  header,
		width:   width,
		log:     log.Named("printer"),
		metrics: m,
	}
}

// Header returns the store header stamped on every receipt.
func (s *PrinterService) Header() entity.ReceiptHeader {
	return s.header
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Kind(),
		Width:      s.width,
	}
}

// Print renders the receipt for the configured printer and sends it.
func (s *PrinterService) Print(r *entity.Receipt) error {
	data := FormatReceipt(r, s.width, s.printer.PlainText())
	if err := s.printer.Print(data); err != nil {
		s.metrics.ReceiptPrinted(false)
		s.log.Error("failed to print receipt", zap.String("receipt_no", r.ReceiptNo), zap.Error(err))
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	s.metrics.ReceiptPrinted(true)
	s.log.Info("receipt printed", zap.String("receipt_no", r.ReceiptNo), zap.String("printer", s.printer.Kind()))
	return nil
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		ReceiptNo: "TEST-001",
		SessionID: uuid.Nil,
		Header:    s.header,
		Items: []entity.Item{
			{Barcode: "000000001", Name: "Test Item 1", Price: decimal.RequireFromString("10.00")},
			{Barcode: "000000002", Name: "Test Item 2", Price: decimal.RequireFromString("5.00")},
		},
		Subtotal:      decimal.RequireFromString("15.00"),
		TotalDiscount: decimal.Zero,
		Total:         decimal.RequireFromString("15.00"),
		PaymentMethod: enum.PaymentMethodCash,
		PaymentStatus: enum.PaymentStatusSuccessful,
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	if err := s.Print(receipt); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatReceipt renders a Receipt as ESC/POS bytes, or as plain text when plain is set.
func FormatReceipt(r *entity.Receipt, width int, plain bool) []byte {
	var doc *printer.Document
	if plain {
		doc = printer.NewPlainDocument(width)
	} else {
		doc = printer.NewDocument(width)
	}

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.Text("RECEIPT").
		SetAlign(printer.AlignLeft).
		Separator('=')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Timestamp)

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Name, money(item.Price))
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal", money(r.Subtotal))
	for _, d := range r.Discounts {
		doc.ItemLine(fmt.Sprintf("Discount (%s)", d.Code), money(d.Amount.Neg()))
	}
	if len(r.Discounts) > 0 {
		doc.KeyValue("Total Discount", money(r.TotalDiscount.Neg()))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", money(r.Total)).
		SetBold(false)

	doc.KeyValue("Payment Method:", r.PaymentMethod.String()).
		Separator('=')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		Text("Thank you for shopping with us!").
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
