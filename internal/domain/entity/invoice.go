package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/invoice-generator/pkg/money"
)

// InvoiceNumberFormat renders the 1-based invoice sequence number
const InvoiceNumberFormat = "INV-%04d"

// FormatInvoiceNumber returns the invoice number for sequence n
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf(InvoiceNumberFormat, n)
}

// ParseInvoiceNumber returns the sequence number of an INV- number
func ParseInvoiceNumber(number string) (int, bool) {
	digits, ok := strings.CutPrefix(number, "INV-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Invoice is the persisted invoice header
type Invoice struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber   string     `gorm:"size:32;uniqueIndex;not null" json:"invoice_number"`
	Date            time.Time  `gorm:"not null" json:"date"`
	CustomerName    string     `gorm:"size:255" json:"customer_name"`
	CustomerAddress string     `gorm:"type:text" json:"customer_address"`
	Subtotal        money.Text `gorm:"type:text;not null" json:"subtotal"`
	TaxTotal        money.Text `gorm:"type:text;not null" json:"tax_total"`
	Total           money.Text `gorm:"type:text;not null" json:"total"`
	LogoPath        *string    `gorm:"type:text" json:"logo_path,omitempty"`
	SignaturePath   *string    `gorm:"type:text" json:"signature_path,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Relationships
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents a line item of an invoice. Quantity, rate and
// percentages keep the exact text the operator entered.
type InvoiceItem struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID       uint       `gorm:"not null;index" json:"invoice_id"`
	Description     string     `gorm:"type:text" json:"description"`
	Quantity        money.Text `gorm:"type:text;not null" json:"quantity"`
	Rate            money.Text `gorm:"type:text;not null" json:"rate"`
	TaxPercent      money.Text `gorm:"type:text;not null" json:"tax_percent"`
	DiscountPercent money.Text `gorm:"type:text;not null" json:"discount_percent"`
	Amount          money.Text `gorm:"type:text;not null" json:"amount"`
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "items"
}

// InvoiceSummary is the history row shown to the operator
type InvoiceSummary struct {
	ID            uint       `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	Date          time.Time  `json:"date"`
	CustomerName  string     `json:"customer_name"`
	Total         money.Text `json:"total"`
}

// InvoiceCounter holds the last issued invoice sequence number
type InvoiceCounter struct {
	Name       string `gorm:"primaryKey;size:32"`
	LastIssued int    `gorm:"not null;default:0"`
}

// TableName returns the table name for the InvoiceCounter model
func (InvoiceCounter) TableName() string {
	return "invoice_counters"
}
