package request

// DraftRequest carries the header fields of a draft. Omitted fields are left unchanged.
type DraftRequest struct {
	CustomerName    *string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerAddress *string `json:"customer_address" binding:"omitempty,max=2000"`
	Date            *string `json:"date" binding:"omitempty,max=32"`
	LogoPath        *string `json:"logo_path" binding:"omitempty,max=1024"`
	SignaturePath   *string `json:"signature_path" binding:"omitempty,max=1024"`
}

// AddItemRequest is one line item as typed by the operator. Numbers stay text
// so they are parsed as exact decimals.
type AddItemRequest struct {
	Description     string `json:"description" binding:"max=500"`
	Quantity        string `json:"quantity" binding:"required,max=32"`
	UnitRate        string `json:"unit_rate" binding:"required,max=32"`
	TaxPercent      string `json:"tax_percent" binding:"max=32"`
	DiscountPercent string `json:"discount_percent" binding:"max=32"`
}
