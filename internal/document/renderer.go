package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/invoice-generator/internal/domain/billing"
	"github.com/sangkips/invoice-generator/internal/domain/entity"
	"github.com/sangkips/invoice-generator/pkg/apperror"
	"github.com/sangkips/invoice-generator/pkg/money"
	"github.com/sirupsen/logrus"
)

const ellipsis = "..."

// Branding is the fixed text printed on every invoice
type Branding struct {
	CompanyName  string
	CompanyLines []string
	Title        string
	Footer       string
	// Location is the zone dates are printed in. Nil means the local zone.
	Location     *time.Location
}

// Renderer lays out invoices on a Canvas and writes them to disk
type Renderer struct {
	newCanvas CanvasFactory
	branding  Branding
	log       logrus.FieldLogger
}

// NewRenderer creates a renderer drawing on canvases from newCanvas
func NewRenderer(newCanvas CanvasFactory, branding Branding, log logrus.FieldLogger) *Renderer {
	if branding.Title == "" {
		branding.Title = "INVOICE"
	}
	if branding.Location == nil {
		branding.Location = time.Local
	}
	return &Renderer{
		newCanvas: newCanvas,
		branding:  branding,
		log:       log,
	}
}

// Render writes the invoice as an A4 document to outPath. An invoice without
// items is refused before any file is created. Logo and signature problems
// are logged and the image is left out.
func (r *Renderer) Render(header *entity.Invoice, items []entity.InvoiceItem, outPath string) error {
	if len(items) == 0 {
		return apperror.ErrEmptyInvoice
	}

	c := r.newCanvas()
	c.AddPage()

	logo := r.loadAsset("logo", header.LogoPath)
	signature := r.loadAsset("signature", header.SignaturePath)

	var logoHeight float64
	if logo != nil {
		logoHeight = logo.HeightFor(logoWidth)
	}

	address := addressLines(header.CustomerAddress)
	layout := computeHeader(logoHeight, len(r.branding.CompanyLines), len(address))

	r.drawBranding(c, logo, layout)
	r.drawBillTo(c, header, address, layout)

	drawColumnHeader(c, layout.tableY)
	pager := NewPaginator(TablePolicy(layout.tableY + rowHeight))
	for i := range items {
		slot := pager.Next()
		if slot.StartsPage {
			c.AddPage()
			drawColumnHeader(c, slot.Y-rowHeight)
		}
		drawRow(c, slot.Y, &items[i])
	}

	end := pager.Finish()
	if end.StartsPage {
		c.AddPage()
	}
	drawTotals(c, end.Y+totalsGap, header)
	r.drawFooter(c, signature)

	if err := c.Save(outPath); err != nil {
		return fmt.Errorf("failed to write document %s: %w", outPath, err)
	}

	r.log.WithFields(logrus.Fields{
		"invoice_number": header.InvoiceNumber,
		"pages":          c.PageCount(),
		"items":          len(items),
	}).Debug("Invoice document rendered")
	return nil
}

func (r *Renderer) loadAsset(kind string, path *string) *Image {
	if path == nil || strings.TrimSpace(*path) == "" {
		return nil
	}
	img, err := LoadImage(*path)
	if err != nil {
		r.log.WithError(err).WithField(kind, *path).Warnf("Unable to load %s image, skipping", kind)
		return nil
	}
	return img
}

func (r *Renderer) drawImage(c Canvas, kind string, img *Image, x, y, w, h float64) {
	if err := c.Image(kind, img.PNG, x, y, w, h); err != nil {
		r.log.WithError(err).Warnf("Unable to draw %s image, skipping", kind)
	}
}

func (r *Renderer) drawBranding(c Canvas, logo *Image, layout headerLayout) {
	if logo != nil {
		r.drawImage(c, "logo", logo, margin, margin, logoWidth, layout.logoHeight)
	}

	right := PageWidth - margin
	c.SetTextColor(Black)
	c.SetFont(true, 12)
	c.Text(right, margin, AlignRight, r.branding.CompanyName)
	c.SetFont(false, 9)
	for i, line := range r.branding.CompanyLines {
		c.Text(right, margin+identityLead+identityLine*float64(i), AlignRight, line)
	}

	c.SetDrawColor(Grey)
	c.Line(margin, layout.ruleY, right, layout.ruleY)
}

func (r *Renderer) drawBillTo(c Canvas, header *entity.Invoice, address []string, layout headerLayout) {
	titleY := layout.titleY

	c.SetFont(true, 18)
	c.Text(margin, titleY, AlignLeft, r.branding.Title)

	c.SetFont(false, 10)
	c.Text(margin, titleY+numberLineGap, AlignLeft, "Invoice No: "+header.InvoiceNumber)
	c.Text(PageWidth/2, titleY+numberLineGap, AlignLeft, "Date: "+header.Date.In(r.branding.Location).Format(billing.DateLayout))

	c.SetFont(true, 11)
	c.Text(margin, titleY+billToGap, AlignLeft, "Bill To:")

	c.SetFont(false, 10)
	c.Text(margin, titleY+customerGap, AlignLeft, header.CustomerName)
	for i, line := range address {
		c.Text(margin, titleY+addressGap+addressLine*float64(i), AlignLeft, line)
	}
}

func drawColumnHeader(c Canvas, y float64) {
	c.SetFillColor(DarkGrey)
	c.FillRect(margin, y-bandAbove, PageWidth-2*margin, bandHeight)

	c.SetTextColor(White)
	c.SetFont(true, 10)
	c.Text(margin+2, y, AlignLeft, "Description")
	c.Text(qtyRight, y, AlignRight, "Qty")
	c.Text(priceRight, y, AlignRight, "Price")
	c.Text(amountRight, y, AlignRight, "Amount")

	c.SetTextColor(Black)
	c.SetFont(false, 10)
}

func drawRow(c Canvas, y float64, item *entity.InvoiceItem) {
	c.Text(margin, y, AlignLeft, fitText(c, item.Description, descriptionWidth))
	c.Text(qtyRight, y, AlignRight, item.Quantity.String())
	c.Text(priceRight, y, AlignRight, money.Format(item.Rate.Decimal))
	c.Text(amountRight, y, AlignRight, money.Format(item.Amount.Decimal))
}

func drawTotals(c Canvas, y float64, header *entity.Invoice) {
	c.SetDrawColor(Grey)
	c.Line(margin, y-totalsLine, amountRight, y-totalsLine)

	c.SetTextColor(Black)
	c.SetFont(true, 10)
	c.Text(amountRight, y, AlignRight, "Subtotal: "+money.Format(header.Subtotal.Decimal))
	c.Text(amountRight, y+totalsLine, AlignRight, "Tax Total: "+money.Format(header.TaxTotal.Decimal))
	c.Text(amountRight, y+2*totalsLine, AlignRight, "Total: "+money.Format(header.Total.Decimal))
}

// drawFooter anchors the signature, closing rule and footer to the bottom of the last page
func (r *Renderer) drawFooter(c Canvas, signature *Image) {
	if signature != nil {
		h := signature.HeightFor(signatureWidth)
		r.drawImage(c, "signature", signature, signatureX, signatureBottom-h, signatureWidth, h)
	}

	c.SetDrawColor(Grey)
	c.Line(margin, closingRuleY, PageWidth-margin, closingRuleY)

	c.SetTextColor(Black)
	c.SetFont(false, 10)
	c.Text(PageWidth/2, footerY, AlignCenter, r.branding.Footer)
}

func addressLines(address string) []string {
	address = strings.TrimRight(strings.ReplaceAll(address, "\r\n", "\n"), "\n")
	if strings.TrimSpace(address) == "" {
		return nil
	}
	return strings.Split(address, "\n")
}

// fitText shortens s with an ellipsis until it fits in width
func fitText(c Canvas, s string, width float64) string {
	if c.TextWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if c.TextWidth(candidate) <= width {
			return candidate
		}
	}
	return ellipsis
}
