package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/priyanshsharmatech/InvoSutra/internal/assist"
	"github.com/priyanshsharmatech/InvoSutra/internal/ingest"
)

// Assistant is the slice of the extraction pipeline the invoice service
// depends on.
type Assistant interface {
	ParseInvoiceFromText(ctx context.Context, text string) (*assist.ExtractedInvoice, error)
	GenerateReminderEmail(ctx context.Context, rc assist.ReminderContext) (string, error)
	DashboardInsights(ctx context.Context, stats assist.StatsSummary) ([]string, error)
}

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidIDGenerator generates IDs using random UUIDs
type uuidIDGenerator struct{}

func (g *uuidIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	assistant   Assistant
	extractor   ingest.Extractor
	exports     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, assistant Assistant, extractor ingest.Extractor, exports Storage) *Service {
	return &Service{
		db:          db,
		assistant:   assistant,
		extractor:   extractor,
		exports:     exports,
		idGenerator: &uuidIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, assistant Assistant, extractor ingest.Extractor, exports Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		assistant:   assistant,
		extractor:   extractor,
		exports:     exports,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// CreateInvoice validates and persists a new invoice, filling in the ID,
// invoice number, status and timestamps where absent
func (s *Service) CreateInvoice(inv *Invoice) (*Invoice, error) {
	if strings.TrimSpace(inv.ClientName) == "" {
		return nil, &assist.Error{Kind: assist.KindInput, Detail: "client name is required"}
	}
	for i, item := range inv.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &assist.Error{Kind: assist.KindInput, Detail: fmt.Sprintf("items[%d].name is required", i)}
		}
		if item.Quantity <= 0 {
			return nil, &assist.Error{Kind: assist.KindInput, Detail: fmt.Sprintf("items[%d].quantity must be greater than zero", i)}
		}
		if item.UnitPrice < 0 {
			return nil, &assist.Error{Kind: assist.KindInput, Detail: fmt.Sprintf("items[%d].unit_price must not be negative", i)}
		}
	}

	now := s.timeSource.Now()
	if inv.ID == "" {
		inv.ID = s.idGenerator.Generate()
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = invoiceNumberFromID(inv.ID)
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = now.AddDate(0, 0, 30)
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

// invoiceNumberFromID derives a short display number from an invoice ID
func invoiceNumberFromID(id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "INV-" + strings.ToUpper(short)
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	return s.db.GetInvoice(id)
}

// ListInvoices returns all invoices, newest first
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

// DeleteInvoice removes an invoice and any generated PDF for it
func (s *Service) DeleteInvoice(id string) error {
	if _, err := s.db.GetInvoice(id); err != nil {
		return err
	}

	// A PDF only exists if one was requested; failure to remove it is not fatal
	if err := s.exports.Delete(pdfFilename(id)); err != nil {
		slog.Debug("No generated PDF to delete", "invoice", id, "error", err)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	return nil
}

// MarkPaid marks an invoice as paid
func (s *Service) MarkPaid(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, err
	}
	inv.Status = StatusPaid
	inv.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveInvoice(inv); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return inv, nil
}

// ParseFromText extracts invoice fields from free-form text without
// persisting anything; the caller confirms before creating the invoice
func (s *Service) ParseFromText(ctx context.Context, text string) (*assist.ExtractedInvoice, error) {
	return s.assistant.ParseInvoiceFromText(ctx, text)
}

// ImportDocument extracts text from an uploaded document, runs the invoice
// extraction pipeline on it, and persists the result as a pending invoice
func (s *Service) ImportDocument(ctx context.Context, data []byte, contentType string) (*Invoice, error) {
	text, err := s.extractor.Text(data, contentType)
	if err != nil {
		return nil, &assist.Error{Kind: assist.KindInput, Detail: "unreadable document", Err: err}
	}

	extracted, err := s.assistant.ParseInvoiceFromText(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.CreateInvoice(&Invoice{
		ClientName: extracted.ClientName,
		Email:      extracted.Email,
		Address:    extracted.Address,
		Items:      toItems(extracted.Items),
		Status:     StatusPending,
	})
}

// toItems converts extracted line items to stored items, with unit prices
// in cents
func toItems(items []assist.LineItem) []Item {
	converted := make([]Item, 0, len(items))
	for _, item := range items {
		converted = append(converted, Item{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: int(math.Round(item.UnitPrice * 100)),
		})
	}
	return converted
}

// Reminder drafts a payment reminder email for the given invoice
func (s *Service) Reminder(ctx context.Context, id string) (string, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return "", err
	}

	return s.assistant.GenerateReminderEmail(ctx, assist.ReminderContext{
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		AmountDue:     formatCents(inv.Total()),
		DueDate:       inv.DueDate.Format("2006-01-02"),
	})
}

// Insights asks the assistant for advisory strings about the current
// invoice statistics
func (s *Service) Insights(ctx context.Context) ([]string, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}
	return s.assistant.DashboardInsights(ctx, stats)
}

// Stats aggregates the stored invoices into the summary the insight
// pipeline consumes. Amounts are converted from cents to whole currency.
func (s *Service) Stats() (assist.StatsSummary, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return assist.StatsSummary{}, err
	}

	stats := assist.StatsSummary{TotalInvoices: len(invoices)}
	for _, inv := range invoices {
		total := float64(inv.Total()) / 100
		if inv.Status == StatusPaid {
			stats.PaidInvoices++
			stats.TotalRevenue += total
		} else {
			stats.UnpaidInvoices++
			stats.TotalOutstanding += total
		}
	}

	for _, inv := range invoices {
		if len(stats.Recent) == 5 {
			break
		}
		stats.Recent = append(stats.Recent, assist.RecentInvoice{
			InvoiceNumber: inv.InvoiceNumber,
			Total:         float64(inv.Total()) / 100,
			Status:        inv.Status,
		})
	}

	return stats, nil
}

// InvoicePDF renders a PDF for the invoice and keeps a copy in the export
// store
func (s *Service) InvoicePDF(id string) ([]byte, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, err
	}

	data, err := renderPDF(inv)
	if err != nil {
		return nil, err
	}

	if _, err := s.exports.Save(pdfFilename(id), data); err != nil {
		slog.Warn("Failed to store generated PDF", "invoice", id, "error", err)
	}

	return data, nil
}

func pdfFilename(id string) string {
	return id + ".pdf"
}
