package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-generator/pkg/apperror"
)

// Draft is an invoice being entered: customer, date, asset paths and the
// pending item list. It is handed to the invoice service on finalize and
// cleared once the store owns the record.
type Draft struct {
	ID              uuid.UUID
	CustomerName    string
	CustomerAddress string
	Date            time.Time
	LogoPath        string
	SignaturePath   string

	items []LineItem
}

// NewDraft starts an empty draft dated at now.
func NewDraft(now time.Time) *Draft {
	return &Draft{
		ID:   uuid.New(),
		Date: now.Truncate(time.Second),
	}
}

// AddItem appends an item to the pending list.
func (d *Draft) AddItem(item LineItem) {
	d.items = append(d.items, item)
}

// RemoveItem drops the item at index. Items are never edited in place.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.items) {
		return apperror.NewNotFoundError(fmt.Sprintf("Item %d", index))
	}
	d.items = append(d.items[:index:index], d.items[index+1:]...)
	return nil
}

// Items returns a copy of the pending list in entry order.
func (d *Draft) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of pending items.
func (d *Draft) Len() int {
	return len(d.items)
}

// Totals previews the invoice sums for the pending list.
func (d *Draft) Totals() (Totals, error) {
	return Aggregate(d.items)
}

// Clear empties the pending list after the invoice is finalized.
func (d *Draft) Clear() {
	d.items = nil
}
