package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-generator/internal/domain/billing"
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
)

// DraftService holds the invoices being entered until they are finalized or discarded
type DraftService struct {
	mu             sync.Mutex
	drafts         map[uuid.UUID]*billing.Draft
	invoiceService *InvoiceService
	now            func() time.Time
}

// NewDraftService creates a new draft service
func NewDraftService(invoiceService *InvoiceService) *DraftService {
	return &DraftService{
		drafts:         make(map[uuid.UUID]*billing.Draft),
		invoiceService: invoiceService,
		now:            time.Now,
	}
}

// DraftDetailsInput carries the header fields of a draft. Nil fields are left unchanged.
type DraftDetailsInput struct {
	CustomerName    *string
	CustomerAddress *string
	Date            *string
	LogoPath        *string
	SignaturePath   *string
}

// DraftItemView is one pending line with its computed amount
type DraftItemView struct {
	Index           int        `json:"index"`
	Description     string     `json:"description"`
	Quantity        money.Text `json:"quantity"`
	UnitRate        money.Text `json:"unit_rate"`
	TaxPercent      money.Text `json:"tax_percent"`
	DiscountPercent money.Text `json:"discount_percent"`
	Amount          money.Text `json:"amount"`
}

// TotalsView is the running totals preview
type TotalsView struct {
	Subtotal money.Text `json:"subtotal"`
	TaxTotal money.Text `json:"tax_total"`
	Total    money.Text `json:"total"`
}

// DraftView is the draft as shown to the operator
type DraftView struct {
	ID              uuid.UUID       `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	Date            string          `json:"date"`
	LogoPath        string          `json:"logo_path,omitempty"`
	SignaturePath   string          `json:"signature_path,omitempty"`
	Items           []DraftItemView `json:"items"`
	Totals          *TotalsView     `json:"totals,omitempty"`
}

// CreateDraft starts a new draft dated now unless a date is given
func (s *DraftService) CreateDraft(input *DraftDetailsInput) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := billing.NewDraft(s.now())
	if err := s.applyDetails(draft, input); err != nil {
		return nil, err
	}
	s.drafts[draft.ID] = draft
	return newDraftView(draft), nil
}

// GetDraft returns a draft with its items and totals preview
func (s *DraftService) GetDraft(id uuid.UUID) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return newDraftView(draft), nil
}

// UpdateDraft changes the customer, date or asset paths of a draft
func (s *DraftService) UpdateDraft(id uuid.UUID, input *DraftDetailsInput) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyDetails(draft, input); err != nil {
		return nil, err
	}
	return newDraftView(draft), nil
}

// AddItem validates the operator's fields and appends the line to the draft.
// A validation failure leaves the draft untouched.
func (s *DraftService) AddItem(id uuid.UUID, input billing.ItemInput) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.get(id)
	if err != nil {
		return nil, err
	}
	item, err := billing.ParseItem(input)
	if err != nil {
		return nil, err
	}
	draft.AddItem(item)
	return newDraftView(draft), nil
}

// RemoveItem drops the line at index
func (s *DraftService) RemoveItem(id uuid.UUID, index int) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := draft.RemoveItem(index); err != nil {
		return nil, err
	}
	return newDraftView(draft), nil
}

// DiscardDraft drops a draft without saving it
func (s *DraftService) DiscardDraft(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.drafts, id)
	return nil
}

// FinalizeDraft saves the draft as an invoice. The draft is gone once the
// invoice is committed; on any earlier failure it stays for another attempt.
func (s *DraftService) FinalizeDraft(ctx context.Context, id uuid.UUID) (*FinalizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.get(id)
	if err != nil {
		return nil, err
	}

	result, err := s.invoiceService.Finalize(ctx, draft)
	if result != nil {
		delete(s.drafts, id)
	}
	return result, err
}

func (s *DraftService) get(id uuid.UUID) (*billing.Draft, error) {
	draft, ok := s.drafts[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Draft")
	}
	return draft, nil
}

func (s *DraftService) applyDetails(draft *billing.Draft, input *DraftDetailsInput) error {
	if input == nil {
		return nil
	}

	// Parse first so a bad date leaves the draft unchanged
	date := draft.Date
	if input.Date != nil {
		parsed, err := billing.ParseDate(*input.Date, s.now())
		if err != nil {
			return err
		}
		date = parsed
	}
	draft.Date = date

	if input.CustomerName != nil {
		draft.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerAddress != nil {
		draft.CustomerAddress = strings.TrimSpace(*input.CustomerAddress)
	}
	if input.LogoPath != nil {
		draft.LogoPath = strings.TrimSpace(*input.LogoPath)
	}
	if input.SignaturePath != nil {
		draft.SignaturePath = strings.TrimSpace(*input.SignaturePath)
	}
	return nil
}

func newDraftView(draft *billing.Draft) *DraftView {
	view := &DraftView{
		ID:              draft.ID,
		CustomerName:    draft.CustomerName,
		CustomerAddress: draft.CustomerAddress,
		Date:            draft.Date.Format(billing.DateLayout),
		LogoPath:        draft.LogoPath,
		SignaturePath:   draft.SignaturePath,
		Items:           []DraftItemView{},
	}

	items := draft.Items()
	for i, item := range items {
		view.Items = append(view.Items, DraftItemView{
			Index:           i,
			Description:     item.Description(),
			Quantity:        money.NewText(item.Quantity()),
			UnitRate:        money.NewText(item.UnitRate()),
			TaxPercent:      money.NewText(item.TaxPercent()),
			DiscountPercent: money.NewText(item.DiscountPercent()),
			Amount:          money.NewText(item.Amount()),
		})
	}

	if totals, err := billing.Aggregate(items); err == nil {
		view.Totals = &TotalsView{
			Subtotal: money.NewText(totals.Subtotal),
			TaxTotal: money.NewText(totals.TaxTotal),
			Total:    money.NewText(totals.Total),
		}
	}
	return view
}
