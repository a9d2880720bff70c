package repository

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sangkips/invoice-generator/internal/config"
	"github.com/sangkips/invoice-generator/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-generator/internal/domain/repository"
	"github.com/sangkips/invoice-generator/internal/infrastructure/database"
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/sangkips/invoice-generator/pkg/pagination"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "invoices.db"),
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func sampleInvoice(number string) *entity.Invoice {
	return &entity.Invoice{
		InvoiceNumber:   number,
		Date:            time.Date(2026, 3, 4, 10, 11, 12, 0, time.UTC),
		CustomerName:    "Acme Traders",
		CustomerAddress: "12 Market Street\nPune",
		Subtotal:        money.MustText("245.00"),
		TaxTotal:        money.MustText("36.00"),
		Total:           money.MustText("281.00"),
		Items: []entity.InvoiceItem{
			{
				Description:     "Widget",
				Quantity:        money.MustText("2"),
				Rate:            money.MustText("100.00"),
				TaxPercent:      money.MustText("18"),
				DiscountPercent: money.MustText("0"),
				Amount:          money.MustText("236.00"),
			},
			{
				Description:     "Gadget",
				Quantity:        money.MustText("1"),
				Rate:            money.MustText("50"),
				TaxPercent:      money.MustText("0"),
				DiscountPercent: money.MustText("10"),
				Amount:          money.MustText("45.00"),
			},
		},
	}
}

// saveNext issues a number and persists an invoice the way the service does
func saveNext(t *testing.T, repo domainRepo.InvoiceRepository) *entity.Invoice {
	t.Helper()

	var saved *entity.Invoice
	err := repo.Transaction(context.Background(), func(tx domainRepo.InvoiceRepository) error {
		number, err := tx.IssueInvoiceNumber(context.Background())
		if err != nil {
			return err
		}
		saved = sampleInvoice(number)
		return tx.Create(context.Background(), saved)
	})
	require.NoError(t, err)
	return saved
}

func TestInvoiceNumbering(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	next, err := repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0001", next)

	next, err = repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0001", next, "peeking does not reserve")

	for i := 1; i <= 3; i++ {
		saved := saveNext(t, repo)
		require.Equal(t, entity.FormatInvoiceNumber(i), saved.InvoiceNumber)
	}

	next, err = repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0004", next)
}

func TestCounterSeedsFromExistingHeaders(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)

	// Rows written before the counter table existed
	for _, number := range []string{"INV-0001", "INV-0002"} {
		require.NoError(t, repo.Create(ctx, sampleInvoice(number)))
	}

	next, err := repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0003", next)

	saved := saveNext(t, repo)
	require.Equal(t, "INV-0003", saved.InvoiceNumber)

	var counter entity.InvoiceCounter
	require.NoError(t, db.First(&counter, "name = ?", invoiceCounterName).Error)
	require.Equal(t, 3, counter.LastIssued)
}

func TestCounterSeedsPastDeletedLegacyHeaders(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	// INV-0002 was deleted out of band before the counter table existed
	for _, number := range []string{"INV-0001", "INV-0003"} {
		require.NoError(t, repo.Create(ctx, sampleInvoice(number)))
	}

	next, err := repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0004", next)

	saved := saveNext(t, repo)
	require.Equal(t, "INV-0004", saved.InvoiceNumber)
}

func TestParseInvoiceNumber(t *testing.T) {
	n, ok := entity.ParseInvoiceNumber("INV-0042")
	require.True(t, ok)
	require.Equal(t, 42, n)

	n, ok = entity.ParseInvoiceNumber("INV-12345")
	require.True(t, ok)
	require.Equal(t, 12345, n)

	for _, number := range []string{"", "INV-", "INV-abc", "QT-0001", "INV-0000"} {
		_, ok = entity.ParseInvoiceNumber(number)
		require.False(t, ok, number)
	}
}

func TestCounterSurvivesDeletedHeaders(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)

	first := saveNext(t, repo)
	saveNext(t, repo)

	require.NoError(t, db.Where("invoice_id = ?", first.ID).Delete(&entity.InvoiceItem{}).Error)
	require.NoError(t, db.Delete(&entity.Invoice{}, first.ID).Error)

	next, err := repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0003", next)
	require.Equal(t, "INV-0003", saveNext(t, repo).InvoiceNumber)
}

func TestRolledBackTransactionDoesNotConsumeNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))
	saveNext(t, repo)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx domainRepo.InvoiceRepository) error {
		number, err := tx.IssueInvoiceNumber(ctx)
		require.NoError(t, err)
		require.Equal(t, "INV-0002", number)
		return boom
	})
	require.ErrorIs(t, err, boom)

	next, err := repo.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-0002", next)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestCreateRejectsEmptyInvoice(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	invoice := sampleInvoice("INV-0001")
	invoice.Items = nil
	err := repo.Create(ctx, invoice)
	require.True(t, errors.Is(err, apperror.ErrEmptyInvoice))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)

	require.NoError(t, repo.Create(ctx, sampleInvoice("INV-0001")))
	require.Error(t, repo.Create(ctx, sampleInvoice("INV-0001")))

	var items int64
	require.NoError(t, db.Model(&entity.InvoiceItem{}).Count(&items).Error)
	require.EqualValues(t, 2, items, "the failed header leaves no orphan items")
}

func TestRoundTripKeepsDecimalText(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))
	saved := saveNext(t, repo)

	loaded, err := repo.GetWithItems(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.Equal(t, "INV-0001", loaded.InvoiceNumber)
	require.True(t, saved.Date.Equal(loaded.Date))
	require.Equal(t, "12 Market Street\nPune", loaded.CustomerAddress)
	require.Equal(t, "281.00", loaded.Total.String())
	require.Nil(t, loaded.LogoPath)

	require.Len(t, loaded.Items, 2)
	for i, item := range loaded.Items {
		want := saved.Items[i]
		require.Equal(t, saved.ID, item.InvoiceID)
		require.Equal(t, want.Description, item.Description)
		require.Equal(t, want.Quantity.String(), item.Quantity.String())
		require.Equal(t, want.Rate.String(), item.Rate.String())
		require.Equal(t, want.TaxPercent.String(), item.TaxPercent.String())
		require.Equal(t, want.DiscountPercent.String(), item.DiscountPercent.String())
		require.Equal(t, want.Amount.String(), item.Amount.String())
	}
	require.Equal(t, "100.00", loaded.Items[0].Rate.String())

	byNumber, err := repo.GetByNumber(ctx, "INV-0001")
	require.NoError(t, err)
	require.Equal(t, loaded.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 2)
}

func TestGetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	invoice, err := repo.GetWithItems(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, invoice)

	invoice, err = repo.GetByNumber(ctx, "INV-9999")
	require.NoError(t, err)
	require.Nil(t, invoice)
}

func TestListHeadersMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		saveNext(t, repo)
	}

	summaries, err := repo.ListHeaders(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	numbers := make([]string, 0, len(summaries))
	for _, s := range summaries {
		numbers = append(numbers, s.InvoiceNumber)
		require.Equal(t, "Acme Traders", s.CustomerName)
		require.Equal(t, "281.00", s.Total.String())
		require.Equal(t, 2026, s.Date.Year())
	}
	require.Equal(t, []string{"INV-0003", "INV-0002", "INV-0001"}, numbers)
}

func TestListHeadersPage(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))

	for i := 0; i < 5; i++ {
		saveNext(t, repo)
	}

	summaries, total, err := repo.ListHeadersPage(ctx, &pagination.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, summaries, 2)
	require.Equal(t, "INV-0003", summaries[0].InvoiceNumber)
	require.Equal(t, "INV-0002", summaries[1].InvoiceNumber)

	summaries, total, err = repo.ListHeadersPage(ctx, &pagination.PaginationParams{Page: 4, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Empty(t, summaries)
}
