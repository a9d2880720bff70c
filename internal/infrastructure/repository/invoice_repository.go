package repository

import (
	"context"
	"errors"

	"github.com/sangkips/invoice-generator/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-generator/internal/domain/repository"
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invoiceCounterName keys the single counter row
const invoiceCounterName = "invoice"

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// lastIssued reads the counter. A database written before the counter existed
// has no row yet; the count-based scheme issued at least its header count, and
// at least the highest number already stored when headers were deleted.
func lastIssued(db *gorm.DB) (last int, exists bool, err error) {
	var counter entity.InvoiceCounter
	err = db.First(&counter, "name = ?", invoiceCounterName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		last, err := highestIssued(db)
		return last, false, err
	}
	if err != nil {
		return 0, false, err
	}
	return counter.LastIssued, true, nil
}

func highestIssued(db *gorm.DB) (int, error) {
	var numbers []string
	if err := db.Model(&entity.Invoice{}).Pluck("invoice_number", &numbers).Error; err != nil {
		return 0, err
	}

	highest := len(numbers)
	for _, number := range numbers {
		if n, ok := entity.ParseInvoiceNumber(number); ok && n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	last, _, err := lastIssued(r.db.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return entity.FormatInvoiceNumber(last + 1), nil
}

func (r *invoiceRepository) IssueInvoiceNumber(ctx context.Context) (string, error) {
	db := r.db.WithContext(ctx)
	last, exists, err := lastIssued(db)
	if err != nil {
		return "", err
	}
	next := last + 1

	if !exists {
		if err := db.Create(&entity.InvoiceCounter{Name: invoiceCounterName, LastIssued: next}).Error; err != nil {
			return "", err
		}
		return entity.FormatInvoiceNumber(next), nil
	}

	// Compare-and-set so a stale read can never issue the same number twice
	result := db.Model(&entity.InvoiceCounter{}).
		Where("name = ? AND last_issued = ?", invoiceCounterName, last).
		Update("last_issued", next)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", apperror.NewConflictError("Invoice counter changed while issuing a number")
	}
	return entity.FormatInvoiceNumber(next), nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	if len(invoice.Items) == 0 {
		return apperror.ErrEmptyInvoice
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(invoice).Error; err != nil {
			return err
		}
		for i := range invoice.Items {
			invoice.Items[i].ID = 0
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.Items).Error
	})
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) ListHeaders(ctx context.Context) ([]entity.InvoiceSummary, error) {
	var summaries []entity.InvoiceSummary
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("id", "invoice_number", "date", "customer_name", "total").
		Order("id DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (r *invoiceRepository) ListHeadersPage(ctx context.Context, params *pagination.PaginationParams) ([]entity.InvoiceSummary, int64, error) {
	var summaries []entity.InvoiceSummary
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Select("id", "invoice_number", "date", "customer_name", "total").
		Offset(params.Offset()).Limit(params.PerPage).
		Order("id DESC").
		Scan(&summaries).Error

	return summaries, total, err
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Count(&count).Error
	return count, err
}

func (r *invoiceRepository) Transaction(ctx context.Context, fn func(repo domainRepo.InvoiceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&invoiceRepository{db: tx})
	})
}
