package repository

import (
	"context"

	"github.com/sangkips/invoice-generator/internal/domain/entity"
	"github.com/sangkips/invoice-generator/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// NextInvoiceNumber returns the number the next save will issue without reserving it
	NextInvoiceNumber(ctx context.Context) (string, error)
	// IssueInvoiceNumber advances the counter and returns the issued number.
	// Call it inside Transaction so the number and the record commit together.
	IssueInvoiceNumber(ctx context.Context) (string, error)
	// Create persists the header and its items as one unit
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetWithItems(ctx context.Context, id uint) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	// ListHeaders returns summaries, most recent first
	ListHeaders(ctx context.Context) ([]entity.InvoiceSummary, error)
	ListHeadersPage(ctx context.Context, params *pagination.PaginationParams) ([]entity.InvoiceSummary, int64, error)
	Count(ctx context.Context) (int64, error)
	// Transaction runs fn against a repository bound to a single transaction
	Transaction(ctx context.Context, fn func(repo InvoiceRepository) error) error
}
