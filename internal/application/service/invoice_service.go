package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-generator/internal/config"
	"github.com/sangkips/invoice-generator/internal/domain/billing"
	"github.com/sangkips/invoice-generator/internal/domain/entity"
	"github.com/sangkips/invoice-generator/internal/domain/repository"
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/sangkips/invoice-generator/pkg/pagination"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// DocumentRenderer writes an invoice document to a path
type DocumentRenderer interface {
	Render(header *entity.Invoice, items []entity.InvoiceItem, outPath string) error
}

// InvoiceService finalizes drafts into numbered, persisted and rendered invoices
type InvoiceService struct {
	// mu keeps a single writer on the store and the output directory
	mu          sync.Mutex
	invoiceRepo repository.InvoiceRepository
	renderer    DocumentRenderer
	outputDir   string
	log         logrus.FieldLogger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	renderer DocumentRenderer,
	outputDir string,
	log logrus.FieldLogger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		outputDir:   outputDir,
		log:         log.WithField("module", "invoice_service"),
	}
}

// FinalizeResult is what the operator sees after a successful save
type FinalizeResult struct {
	InvoiceID     uint       `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Date          time.Time  `json:"date"`
	Subtotal      money.Text `json:"subtotal"`
	TaxTotal      money.Text `json:"tax_total"`
	Total         money.Text `json:"total"`
	OutputPath    string     `json:"output_path"`
}

// NextInvoiceNumber previews the number the next save will issue
func (s *InvoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	number, err := s.invoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return "", apperror.NewPersistenceError(err)
	}
	return number, nil
}

// Finalize issues a number, renders and persists the draft as one unit.
// The document is rendered to a temporary file inside the transaction and
// moved to <number>.pdf only after commit, so a failure before commit leaves
// neither a row nor a document behind. The draft items are cleared on success.
func (s *InvoiceService) Finalize(ctx context.Context, draft *billing.Draft) (*FinalizeResult, error) {
	items := draft.Items()
	totals, err := billing.Aggregate(items)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, apperror.NewRenderError(fmt.Errorf("failed to create output directory: %w", err))
	}

	invoice := buildInvoice(draft, items, totals)
	tmpPath := s.tempPath()

	err = s.invoiceRepo.Transaction(ctx, func(repo repository.InvoiceRepository) error {
		number, err := repo.IssueInvoiceNumber(ctx)
		if err != nil {
			return apperror.NewPersistenceError(err)
		}
		invoice.InvoiceNumber = number

		if err := s.renderer.Render(invoice, invoice.Items, tmpPath); err != nil {
			return apperror.NewRenderError(err)
		}

		if err := repo.Create(ctx, invoice); err != nil {
			return apperror.NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		s.discard(tmpPath)
		if !apperror.IsAppError(err) {
			// commit failed
			err = apperror.NewPersistenceError(err)
		}
		config.LogError(s.log, "invoice_service", "Finalize", logrus.Fields{"draft_id": draft.ID}, err)
		return nil, err
	}

	result := &FinalizeResult{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Date:          invoice.Date,
		Subtotal:      invoice.Subtotal,
		TaxTotal:      invoice.TaxTotal,
		Total:         invoice.Total,
	}

	outPath, err := s.publish(tmpPath, invoice.InvoiceNumber)
	if err != nil {
		s.discard(tmpPath)
		config.LogError(s.log, "invoice_service", "Finalize", logrus.Fields{"invoice_number": invoice.InvoiceNumber}, err)
		return result, apperror.NewArtifactError(invoice.InvoiceNumber, err)
	}
	result.OutputPath = outPath

	draft.Clear()

	s.log.WithFields(logrus.Fields{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"total":          invoice.Total.String(),
		"output_path":    outPath,
	}).Info("Invoice finalized")
	return result, nil
}

// GetInvoice retrieves an invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices returns invoice summaries, most recent first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.InvoiceSummary], error) {
	page, total, err := s.invoiceRepo.ListHeadersPage(ctx, params)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if page == nil {
		page = []entity.InvoiceSummary{}
	}

	return pagination.NewPaginatedResult(page, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Reprint renders a stored invoice again to <number>.pdf, replacing any existing file
func (s *InvoiceService) Reprint(ctx context.Context, id uint) (string, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", apperror.NewRenderError(fmt.Errorf("failed to create output directory: %w", err))
	}

	tmpPath := s.tempPath()
	if err := s.renderer.Render(invoice, invoice.Items, tmpPath); err != nil {
		s.discard(tmpPath)
		config.LogError(s.log, "invoice_service", "Reprint", logrus.Fields{"invoice_number": invoice.InvoiceNumber}, err)
		return "", apperror.NewRenderError(err)
	}

	outPath, err := s.publish(tmpPath, invoice.InvoiceNumber)
	if err != nil {
		s.discard(tmpPath)
		config.LogError(s.log, "invoice_service", "Reprint", logrus.Fields{"invoice_number": invoice.InvoiceNumber}, err)
		return "", apperror.NewArtifactError(invoice.InvoiceNumber, err)
	}

	s.log.WithFields(logrus.Fields{
		"invoice_number": invoice.InvoiceNumber,
		"output_path":    outPath,
	}).Info("Invoice reprinted")
	return outPath, nil
}

var registerHeadings = []string{"Invoice No", "Date", "Customer", "Total"}

// ExportRegister writes every invoice summary to an XLSX sheet
func (s *InvoiceService) ExportRegister(ctx context.Context, w io.Writer) error {
	summaries, err := s.invoiceRepo.ListHeaders(ctx)
	if err != nil {
		return apperror.NewPersistenceError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, heading := range registerHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, heading); err != nil {
			return err
		}
	}

	for i, summary := range summaries {
		row := i + 2
		values := []interface{}{
			summary.InvoiceNumber,
			summary.Date.In(time.Local).Format(billing.DateLayout),
			summary.CustomerName,
			summary.Total.String(),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write register: %w", err)
	}
	return nil
}

// OutputPath is where the document of invoiceNumber is published
func (s *InvoiceService) OutputPath(invoiceNumber string) string {
	return filepath.Join(s.outputDir, invoiceNumber+".pdf")
}

func (s *InvoiceService) tempPath() string {
	return filepath.Join(s.outputDir, "."+uuid.NewString()+".pdf.tmp")
}

func (s *InvoiceService) publish(tmpPath, invoiceNumber string) (string, error) {
	outPath := s.OutputPath(invoiceNumber)
	if err := os.Rename(tmpPath, outPath); err != nil {
		return "", fmt.Errorf("failed to move document into place: %w", err)
	}
	return outPath, nil
}

func (s *InvoiceService) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.WithError(err).WithField("path", path).Warn("Failed to remove temporary document")
	}
}

func buildInvoice(draft *billing.Draft, items []billing.LineItem, totals billing.Totals) *entity.Invoice {
	rows := make([]entity.InvoiceItem, len(items))
	for i, item := range items {
		rows[i] = entity.InvoiceItem{
			Description:     item.Description(),
			Quantity:        money.NewText(item.Quantity()),
			Rate:            money.NewText(item.UnitRate()),
			TaxPercent:      money.NewText(item.TaxPercent()),
			DiscountPercent: money.NewText(item.DiscountPercent()),
			Amount:          money.NewText(item.Amount()),
		}
	}

	return &entity.Invoice{
		Date:            draft.Date,
		CustomerName:    draft.CustomerName,
		CustomerAddress: draft.CustomerAddress,
		Subtotal:        money.NewText(totals.Subtotal),
		TaxTotal:        money.NewText(totals.TaxTotal),
		Total:           money.NewText(totals.Total),
		LogoPath:        optionalPath(draft.LogoPath),
		SignaturePath:   optionalPath(draft.SignaturePath),
		Items:           rows,
	}
}

func optionalPath(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}
